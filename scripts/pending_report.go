package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Lists registrations that are still waiting for payment, with the number of
// gateway orders each one opened. Read-only.
func main() {
	olderThan := flag.Duration("older-than", time.Hour, "only show registrations created before now minus this")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Build connection string
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	rows, err := db.Query(`
		SELECT u.id, u.email, u.role, u.final_price, u.created_at, COUNT(o.id)
		FROM users u
		LEFT JOIN payment_orders o ON o.user_id = u.id
		WHERE u.payment_status = 'Pending' AND u.created_at < $1
		GROUP BY u.id, u.email, u.role, u.final_price, u.created_at
		ORDER BY u.created_at`, time.Now().Add(-*olderThan))
	if err != nil {
		log.Fatalf("Failed to query pending registrations: %v", err)
	}
	defer rows.Close()

	fmt.Printf("%-6s %-32s %-12s %10s %-20s %s\n", "ID", "EMAIL", "ROLE", "AMOUNT", "CREATED", "ORDERS")
	count := 0
	for rows.Next() {
		var (
			id        int64
			email     string
			role      string
			amount    string
			createdAt time.Time
			orders    int
		)
		if err := rows.Scan(&id, &email, &role, &amount, &createdAt, &orders); err != nil {
			log.Fatalf("Failed to read row: %v", err)
		}
		fmt.Printf("%-6d %-32s %-12s %10s %-20s %d\n", id, email, role, amount, createdAt.Format("2006-01-02 15:04"), orders)
		count++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Failed to iterate rows: %v", err)
	}

	fmt.Printf("\n%d registration(s) pending\n", count)
}
