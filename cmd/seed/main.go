package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"unilib/internal/database"
	"unilib/internal/domain"
	"unilib/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	db, err := database.Connect("library.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM loans")
	db.Exec("DELETE FROM requests")
	db.Exec("DELETE FROM saved_books")
	db.Exec("DELETE FROM books")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	store := repository.NewStore(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	admin := mustUser(ctx, store, "librarian", "librarian@unilib.edu", "admin123", domain.RoleAdmin)
	log.Println("Admin created: librarian@unilib.edu / admin123")

	readers := make([]*domain.User, 0, 3)
	for i, email := range []string{"aliya@unilib.edu", "marat@unilib.edu", "dana@unilib.edu"} {
		u := mustUser(ctx, store, fmt.Sprintf("reader%d", i+1), email, "reader123", domain.RoleUser)
		readers = append(readers, u)
	}
	_ = admin

	// ================== BOOKS ==================
	log.Println("Creating books...")

	books := []*domain.Book{
		{Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Publisher: "Addison-Wesley", Category: "Programming", Language: "English", Location: "A-12", Stock: 3},
		{Title: "Clean Architecture", Author: "Robert C. Martin", Publisher: "Prentice Hall", Category: "Software Engineering", Language: "English", Location: "A-14", Stock: 2},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Publisher: "O'Reilly", Category: "Databases", Language: "English", Location: "B-03", Stock: 1},
		{Title: "Introduction to Algorithms", Author: "Thomas H. Cormen", Publisher: "MIT Press", Category: "Computer Science", Language: "English", Location: "B-07", Stock: 4},
	}
	now := time.Now()
	for _, b := range books {
		b.CreatedAt = now
		b.UpdatedAt = now
		b.IsOutOfStock = b.Stock == 0
		if err := store.Books.Create(ctx, b); err != nil {
			log.Fatal("book seed failed:", err)
		}
	}

	// ================== REQUESTS ==================
	log.Println("Creating a pending request...")

	req := &domain.BorrowRequest{
		BookID:    books[0].ID,
		UserID:    readers[0].ID,
		Status:    domain.RequestPending,
		CreatedAt: now,
	}
	if err := store.Requests.Create(ctx, req); err != nil {
		log.Fatal("request seed failed:", err)
	}

	// ================== LOANS ==================
	log.Println("Creating an active loan...")

	returnDate := now.AddDate(0, 0, 14)
	loan := &domain.Loan{
		BookID:     books[2].ID,
		UserID:     readers[1].ID,
		BookTitle:  books[2].Title,
		BorrowedAt: now,
		ReturnDate: returnDate,
	}
	if err := store.Loans.Create(ctx, loan); err != nil {
		log.Fatal("loan seed failed:", err)
	}

	books[2].Stock--
	books[2].IsOutOfStock = books[2].Stock == 0
	books[2].NearestReturnDate = &returnDate
	if err := store.Books.Save(ctx, books[2]); err != nil {
		log.Fatal("stock update failed:", err)
	}

	log.Println("Seed completed")
}

func mustUser(ctx context.Context, store *repository.Store, username, email, password string, role domain.UserRole) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash failed:", err)
	}

	now := time.Now()
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Users.Create(ctx, u); err != nil {
		log.Fatal("user seed failed:", err)
	}
	return u
}
