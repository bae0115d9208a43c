package service

import (
	"database/sql"
	"fmt"

	"datachat/schema"
)

// seedDatabase creates the demo tables and loads the sample dataset when the
// database is empty. It opens its own short-lived read-write connection; the
// serving pool never has write access.
func seedDatabase(path string, desc *schema.Descriptor) error {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	for _, ddl := range desc.DDL() {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	return insertSampleData(db)
}

type sampleCustomer struct {
	id                                  int
	name, email, phone, city, country   string
	registrationDate, status, createdAt string
}

type sampleProduct struct {
	id                                  int
	name, category                      string
	price                               float64
	stock                               int
	description, supplier, createdDate  string
}

type sampleOrder struct {
	id, customerID        int
	productName, category string
	quantity              int
	unitPrice             float64
	orderDate, status     string
}

type sampleEmployee struct {
	id                                  int
	name, email, department, position   string
	salary                              float64
	hireDate                            string
	managerID                           sql.NullInt64
	status                              string
}

func insertSampleData(db *sql.DB) error {
	customers := []sampleCustomer{
		{1, "John Smith", "john.smith@email.com", "+1-555-0101", "New York", "USA", "2023-01-15", "active", "2023-01-15 10:30:00"},
		{2, "Emma Johnson", "emma.j@email.com", "+1-555-0102", "Los Angeles", "USA", "2023-02-20", "active", "2023-02-20 14:22:00"},
		{3, "Michael Brown", "m.brown@email.com", "+44-20-7946-0958", "London", "UK", "2023-03-10", "active", "2023-03-10 09:15:00"},
		{4, "Sophie Martin", "sophie.martin@email.com", "+33-1-42-86-83-26", "Paris", "France", "2023-04-05", "active", "2023-04-05 16:45:00"},
		{5, "Hans Mueller", "hans.m@email.com", "+49-30-12345678", "Berlin", "Germany", "2023-05-12", "inactive", "2023-05-12 11:20:00"},
		{6, "Maria Garcia", "maria.g@email.com", "+34-91-123-4567", "Madrid", "Spain", "2023-06-18", "active", "2023-06-18 13:10:00"},
		{7, "David Wilson", "d.wilson@email.com", "+1-555-0107", "Chicago", "USA", "2023-07-22", "active", "2023-07-22 08:30:00"},
		{8, "Anna Kowalski", "anna.k@email.com", "+48-22-123-4567", "Warsaw", "Poland", "2023-08-30", "active", "2023-08-30 15:55:00"},
	}
	for _, c := range customers {
		if _, err := db.Exec(
			"INSERT INTO customers (id, name, email, phone, city, country, registration_date, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			c.id, c.name, c.email, c.phone, c.city, c.country, c.registrationDate, c.status, c.createdAt,
		); err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
	}

	products := []sampleProduct{
		{1, "Laptop Pro 15", "Electronics", 1299.99, 45, "High-performance laptop for professionals", "TechCorp", "2023-01-10"},
		{2, "Wireless Mouse", "Electronics", 29.99, 200, "Ergonomic wireless mouse", "TechCorp", "2023-01-10"},
		{3, "Office Chair Deluxe", "Furniture", 249.99, 30, "Adjustable ergonomic office chair", "FurniturePlus", "2023-02-01"},
		{4, "Standing Desk", "Furniture", 599.99, 15, "Electric height-adjustable desk", "FurniturePlus", "2023-02-01"},
		{5, "Noise-Canceling Headphones", "Electronics", 199.99, 80, "Over-ear headphones with ANC", "AudioMax", "2023-03-15"},
		{6, "Coffee Maker Premium", "Appliances", 89.99, 50, "Programmable drip coffee maker", "HomeGoods", "2023-04-01"},
		{7, "Monitor 27 inch 4K", "Electronics", 449.99, 35, "27-inch 4K UHD monitor", "TechCorp", "2023-05-10"},
		{8, "Desk Lamp LED", "Furniture", 39.99, 120, "Dimmable LED desk lamp", "HomeGoods", "2023-06-01"},
		{9, "Mechanical Keyboard", "Electronics", 129.99, 90, "RGB mechanical keyboard", "TechCorp", "2023-07-15"},
		{10, "Bookshelf Oak", "Furniture", 179.99, 20, "5-tier oak bookshelf", "FurniturePlus", "2023-08-01"},
	}
	for _, p := range products {
		if _, err := db.Exec(
			"INSERT INTO products (id, name, category, price, stock_quantity, description, supplier, created_date, last_updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			p.id, p.name, p.category, p.price, p.stock, p.description, p.supplier, p.createdDate, p.createdDate+" 00:00:00",
		); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}

	orders := []sampleOrder{
		{1, 1, "Laptop Pro 15", "Electronics", 1, 1299.99, "2024-01-05", "completed"},
		{2, 2, "Wireless Mouse", "Electronics", 3, 29.99, "2024-01-12", "completed"},
		{3, 1, "Noise-Canceling Headphones", "Electronics", 1, 199.99, "2024-02-08", "completed"},
		{4, 3, "Office Chair Deluxe", "Furniture", 2, 249.99, "2024-02-15", "shipped"},
		{5, 4, "Standing Desk", "Furniture", 1, 599.99, "2024-03-01", "completed"},
		{6, 6, "Coffee Maker Premium", "Appliances", 1, 89.99, "2024-03-20", "completed"},
		{7, 2, "Monitor 27 inch 4K", "Electronics", 2, 449.99, "2024-04-10", "pending"},
		{8, 7, "Mechanical Keyboard", "Electronics", 1, 129.99, "2024-04-25", "completed"},
		{9, 8, "Desk Lamp LED", "Furniture", 4, 39.99, "2024-05-14", "shipped"},
		{10, 3, "Bookshelf Oak", "Furniture", 1, 179.99, "2024-06-02", "completed"},
	}
	for _, o := range orders {
		total := float64(o.quantity) * o.unitPrice
		if _, err := db.Exec(
			"INSERT INTO orders (id, customer_id, product_name, category, quantity, unit_price, total_amount, order_date, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			o.id, o.customerID, o.productName, o.category, o.quantity, o.unitPrice, total, o.orderDate, o.status, o.orderDate+" 12:00:00",
		); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
	}

	employees := []sampleEmployee{
		{1, "Alice Thompson", "alice.t@company.com", "Management", "CEO", 185000, "2020-01-15", sql.NullInt64{}, "active"},
		{2, "Bob Richards", "bob.r@company.com", "Engineering", "CTO", 165000, "2020-03-01", sql.NullInt64{Int64: 1, Valid: true}, "active"},
		{3, "Carol White", "carol.w@company.com", "Sales", "Sales Director", 125000, "2020-06-15", sql.NullInt64{Int64: 1, Valid: true}, "active"},
		{4, "Daniel Lee", "daniel.l@company.com", "Engineering", "Senior Developer", 110000, "2021-02-10", sql.NullInt64{Int64: 2, Valid: true}, "active"},
		{5, "Eva Novak", "eva.n@company.com", "Sales", "Account Manager", 75000, "2021-09-01", sql.NullInt64{Int64: 3, Valid: true}, "active"},
		{6, "Frank Osei", "frank.o@company.com", "Engineering", "Developer", 85000, "2022-04-18", sql.NullInt64{Int64: 2, Valid: true}, "inactive"},
	}
	for _, e := range employees {
		if _, err := db.Exec(
			"INSERT INTO employees (id, name, email, department, position, salary, hire_date, manager_id, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			e.id, e.name, e.email, e.department, e.position, e.salary, e.hireDate, e.managerID, e.status,
		); err != nil {
			return fmt.Errorf("seed employees: %w", err)
		}
	}

	return nil
}
