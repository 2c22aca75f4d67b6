// Command admin manages moderation roles from the command line. There is no
// role-change API endpoint; role assignment happens only here.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"wayfare/internal/config"
	"wayfare/internal/database"
	"wayfare/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin set-role <username> <user|reviewer|admin>  - Change a user's role")
		fmt.Println("  go run ./cmd/admin create <username> <password> <role>        - Create an account with a role")
		fmt.Println("  go run ./cmd/admin list                                       - List reviewer and admin accounts")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "set-role":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin set-role <username> <role>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], os.Args[3])

	case "create":
		if len(os.Args) < 5 {
			fmt.Println("Usage: go run ./cmd/admin create <username> <password> <role>")
			os.Exit(1)
		}
		createAccount(db, os.Args[2], os.Args[3], os.Args[4])

	case "list":
		listModerators(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func setRole(db *gorm.DB, username, role string) {
	if !models.ValidRole(role) {
		fmt.Printf("Invalid role %q (want user, reviewer, or admin)\n", role)
		os.Exit(1)
	}

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User %q not found\n", username)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.Role == role {
		fmt.Printf("User %s already has role %s\n", user.Username, role)
		return
	}

	user.Role = role
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("User %s (ID: %d) is now %s\n", user.Username, user.ID, role)
}

func createAccount(db *gorm.DB, username, password, role string) {
	if !models.ValidRole(role) {
		fmt.Printf("Invalid role %q (want user, reviewer, or admin)\n", role)
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashed),
		Nickname: username,
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		log.Fatalf("Failed to create account: %v", err)
	}
	fmt.Printf("Created %s account %s (ID: %d)\n", role, user.Username, user.ID)
}

func listModerators(db *gorm.DB) {
	var users []models.User
	if err := db.Where("role IN ?", []string{models.RoleReviewer, models.RoleAdmin}).
		Order("role, username").Find(&users).Error; err != nil {
		log.Fatalf("Database error: %v", err)
	}

	if len(users) == 0 {
		fmt.Println("No reviewer or admin accounts found")
		return
	}
	for _, u := range users {
		fmt.Printf("%-10s %-20s (ID: %d)\n", u.Role, u.Username, u.ID)
	}
}
