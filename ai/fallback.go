package ai

import "strings"

// FallbackSQL answers a handful of common questions with canned statements
// when the generation service is unavailable. Returns "" when no pattern
// matches; the caller then surfaces the generation failure. Fallback output
// goes through the validator like any generated statement.
func FallbackSQL(question string) string {
	q := strings.ToLower(question)

	containsAny := func(keywords ...string) bool {
		for _, k := range keywords {
			if strings.Contains(q, k) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("all customers", "show customers", "list customers"):
		if strings.Contains(q, "active") {
			return "SELECT * FROM customers WHERE status = 'active'"
		}
		return "SELECT * FROM customers"

	case containsAny("count customers", "how many customers"):
		return "SELECT COUNT(*) AS customer_count FROM customers"

	case containsAny("all orders", "show orders", "list orders"):
		return "SELECT * FROM orders ORDER BY order_date DESC"

	case containsAny("count orders", "how many orders"):
		return "SELECT COUNT(*) AS order_count FROM orders"

	case containsAny("all products", "show products", "list products"):
		if strings.Contains(q, "electronics") {
			return "SELECT * FROM products WHERE category = 'Electronics'"
		}
		return "SELECT * FROM products"

	case containsAny("all employees", "show employees", "list employees"):
		return "SELECT * FROM employees WHERE status = 'active'"

	case strings.Contains(q, "revenue") && strings.Contains(q, "electronics"):
		return "SELECT SUM(total_amount) AS total_revenue FROM orders WHERE category = 'Electronics'"

	case strings.Contains(q, "top") && strings.Contains(q, "customers"):
		return "SELECT c.name, c.email, SUM(o.total_amount) AS total_spent " +
			"FROM customers c JOIN orders o ON c.id = o.customer_id " +
			"GROUP BY c.id, c.name, c.email ORDER BY total_spent DESC LIMIT 5"
	}

	return ""
}
