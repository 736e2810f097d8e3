// Package console implements the interactive text surface: a login prompt
// followed by a numbered menu over the same services the web layer uses.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"stockpilot/internal/config"
	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Console runs the interactive menu loop. Input and output are injected so
// tests can script a whole session.
type Console struct {
	in        *bufio.Scanner
	out       io.Writer
	auth      service.AuthService
	inventory service.InventoryService
	sales     service.SalesService
	cfg       *config.Config

	user *model.User
}

func New(in io.Reader, out io.Writer, auth service.AuthService, inventory service.InventoryService, sales service.SalesService, cfg *config.Config) *Console {
	return &Console{
		in:        bufio.NewScanner(in),
		out:       out,
		auth:      auth,
		inventory: inventory,
		sales:     sales,
		cfg:       cfg,
	}
}

// Run drives the session: one login attempt, then the menu loop until the
// user exits or input runs out. Malformed input never aborts the session.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Inventory Management System ===")

	if !c.login(ctx) {
		fmt.Fprintln(c.out, "Authentication failed. Exiting...")
		return nil
	}

	for {
		c.showMenu()
		choice, ok := c.prompt("\nEnter your choice: ")
		if !ok {
			return nil // input exhausted
		}

		switch choice {
		case "1":
			c.viewProducts(ctx)
		case "2":
			c.searchProducts(ctx)
		case "3":
			c.makePurchase(ctx)
		case "4":
			c.viewSalesHistory(ctx)
		case "5":
			c.viewLowStock(ctx)
		case "6":
			if c.user.IsAdmin() {
				c.adminMenu(ctx)
			} else {
				fmt.Fprintln(c.out, "Access denied. Admin privileges required.")
			}
		case "7":
			fmt.Fprintln(c.out, "Thank you for using Inventory Management System!")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please try again.")
		}
	}
}

func (c *Console) login(ctx context.Context) bool {
	fmt.Fprintln(c.out, "\n--- Login ---")
	username, ok := c.prompt("Username: ")
	if !ok {
		return false
	}
	password, ok := c.prompt("Password: ")
	if !ok {
		return false
	}

	user, err := c.auth.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fmt.Fprintln(c.out, "Invalid credentials.")
		} else {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		return false
	}
	c.user = user
	fmt.Fprintf(c.out, "Welcome, %s!\n", user.Username)
	return true
}

func (c *Console) showMenu() {
	fmt.Fprintf(c.out, "\n--- Main Menu (User: %s) ---\n", c.user.Username)
	fmt.Fprintln(c.out, "1. View All Products")
	fmt.Fprintln(c.out, "2. Search Products")
	fmt.Fprintln(c.out, "3. Make Purchase")
	fmt.Fprintln(c.out, "4. View Sales History")
	fmt.Fprintln(c.out, "5. View Low Stock Items")
	if c.user.IsAdmin() {
		fmt.Fprintln(c.out, "6. Admin Panel")
	}
	fmt.Fprintln(c.out, "7. Exit")
}

// ── Catalog views ────────────────────────────────────────────────────────────

func (c *Console) viewProducts(ctx context.Context) {
	products, err := c.inventory.List(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No products available.")
		return
	}

	fmt.Fprintln(c.out, "\n--- Product Inventory ---")
	fmt.Fprintf(c.out, "%-4s %-20s %-10s %-10s %-15s\n", "#", "Name", "Price", "Stock", "Category")
	fmt.Fprintln(c.out, strings.Repeat("-", 70))
	for i, p := range products {
		fmt.Fprintf(c.out, "%-4d %-20s $%-9s %-10d %-15s\n",
			i+1, p.Name, p.Price.StringFixed(2), p.Quantity, categoryOrNA(p.Category))
	}
}

func (c *Console) searchProducts(ctx context.Context) {
	term, ok := c.prompt("Enter search term: ")
	if !ok || term == "" {
		return
	}

	products, err := c.inventory.Search(ctx, term)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No products found.")
		return
	}

	fmt.Fprintf(c.out, "\n--- Search Results for '%s' ---\n", term)
	fmt.Fprintf(c.out, "%-4s %-20s %-10s %-10s\n", "#", "Name", "Price", "Stock")
	fmt.Fprintln(c.out, strings.Repeat("-", 50))
	for i, p := range products {
		fmt.Fprintf(c.out, "%-4d %-20s $%-9s %-10d\n", i+1, p.Name, p.Price.StringFixed(2), p.Quantity)
	}
}

func (c *Console) viewLowStock(ctx context.Context) {
	products, err := c.inventory.LowStock(ctx, c.cfg.LowStockThreshold)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No low stock items.")
		return
	}

	fmt.Fprintln(c.out, "\n--- Low Stock Alert ---")
	fmt.Fprintf(c.out, "%-4s %-20s %-10s\n", "#", "Name", "Stock")
	fmt.Fprintln(c.out, strings.Repeat("-", 40))
	for i, p := range products {
		fmt.Fprintf(c.out, "%-4d %-20s %-10d\n", i+1, p.Name, p.Quantity)
	}
}

// ── Purchases ────────────────────────────────────────────────────────────────

func (c *Console) makePurchase(ctx context.Context) {
	product, ok := c.chooseProduct(ctx)
	if !ok {
		return
	}
	quantity, ok := c.promptInt("Enter Quantity: ")
	if !ok {
		return
	}
	if quantity < 1 {
		fmt.Fprintln(c.out, "Invalid input. Please enter valid numbers.")
		return
	}

	productID, err := uuid.Parse(product.ID)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	result, err := c.sales.CreateSale(ctx, c.user.ID, productID, quantity)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	if result.Success {
		fmt.Fprintln(c.out, "\n--- Purchase Successful ---")
		fmt.Fprintf(c.out, "Product: %s\n", result.Sale.Product)
		fmt.Fprintf(c.out, "Quantity: %d\n", result.Sale.Quantity)
		fmt.Fprintf(c.out, "Unit Price: $%s\n", result.Sale.UnitPrice.StringFixed(2))
		fmt.Fprintf(c.out, "Total Amount: $%s\n", result.Sale.TotalAmount.StringFixed(2))
	} else {
		fmt.Fprintf(c.out, "Purchase failed: %s\n", result.Message)
	}
}

func (c *Console) viewSalesHistory(ctx context.Context) {
	sales, err := c.sales.SalesByUser(ctx, c.user.ID)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if len(sales) == 0 {
		fmt.Fprintln(c.out, "No sales history found.")
		return
	}

	fmt.Fprintln(c.out, "\n--- Your Sales History ---")
	fmt.Fprintf(c.out, "%-22s %-20s %-5s %-10s\n", "Date", "Product", "Qty", "Total")
	fmt.Fprintln(c.out, strings.Repeat("-", 60))
	for _, s := range sales {
		fmt.Fprintf(c.out, "%-22s %-20s %-5d $%-9s\n", s.SaleDate, s.Product, s.Quantity, s.TotalAmount.StringFixed(2))
	}
}

// ── Admin panel ──────────────────────────────────────────────────────────────

func (c *Console) adminMenu(ctx context.Context) {
	for {
		fmt.Fprintln(c.out, "\n--- Admin Panel ---")
		fmt.Fprintln(c.out, "1. Add Product")
		fmt.Fprintln(c.out, "2. Update Product")
		fmt.Fprintln(c.out, "3. Delete Product")
		fmt.Fprintln(c.out, "4. Sales Report")
		fmt.Fprintln(c.out, "5. Back to Main Menu")

		choice, ok := c.prompt("Enter choice: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			c.addProduct(ctx)
		case "2":
			c.updateProduct(ctx)
		case "3":
			c.deleteProduct(ctx)
		case "4":
			c.salesReport(ctx)
		case "5":
			return
		default:
			fmt.Fprintln(c.out, "Invalid choice.")
		}
	}
}

func (c *Console) addProduct(ctx context.Context) {
	name, ok := c.prompt("Product Name: ")
	if !ok || name == "" {
		fmt.Fprintln(c.out, "Invalid input. Please enter valid values.")
		return
	}
	price, ok := c.promptDecimal("Price: ")
	if !ok {
		return
	}
	quantity, ok := c.promptInt("Quantity: ")
	if !ok {
		return
	}

	req := dto.CreateProductRequest{Name: name, Price: price, Quantity: quantity}
	if category, ok := c.prompt("Category (optional): "); ok && category != "" {
		req.Category = &category
	}
	if description, ok := c.prompt("Description (optional): "); ok && description != "" {
		req.Description = &description
	}

	product, err := c.inventory.Create(ctx, req)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Product '%s' added successfully!\n", product.Name)
}

func (c *Console) updateProduct(ctx context.Context) {
	product, ok := c.chooseProduct(ctx)
	if !ok {
		return
	}
	fmt.Fprintf(c.out, "Current: %s - $%s - Stock: %d\n", product.Name, product.Price.StringFixed(2), product.Quantity)

	var patch dto.UpdateProductRequest
	if raw, ok := c.prompt(fmt.Sprintf("New price (current: $%s): ", product.Price.StringFixed(2))); ok && raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			fmt.Fprintln(c.out, "Invalid input.")
			return
		}
		patch.Price = &price
	}
	if raw, ok := c.prompt(fmt.Sprintf("New quantity (current: %d): ", product.Quantity)); ok && raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil || quantity < 0 {
			fmt.Fprintln(c.out, "Invalid input.")
			return
		}
		patch.Quantity = &quantity
	}

	if patch.Price == nil && patch.Quantity == nil {
		fmt.Fprintln(c.out, "No changes made.")
		return
	}

	productID, err := uuid.Parse(product.ID)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if _, err := c.inventory.Update(ctx, productID, patch); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Product updated successfully!")
}

func (c *Console) deleteProduct(ctx context.Context) {
	product, ok := c.chooseProduct(ctx)
	if !ok {
		return
	}
	productID, err := uuid.Parse(product.ID)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	deleted, err := c.inventory.Delete(ctx, productID)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if deleted {
		fmt.Fprintln(c.out, "Product deleted successfully!")
	} else {
		fmt.Fprintln(c.out, "Product not found.")
	}
}

func (c *Console) salesReport(ctx context.Context) {
	raw, ok := c.prompt("Report period (days, default 30): ")
	if !ok {
		return
	}
	days := c.cfg.ReportDays
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fmt.Fprintln(c.out, "Invalid input.")
			return
		}
		days = n
	}

	report, err := c.sales.Report(ctx, days)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "\n--- Sales Report (Last %d days) ---\n", days)
	fmt.Fprintf(c.out, "Total Revenue: $%s\n", report.TotalRevenue.StringFixed(2))
	fmt.Fprintf(c.out, "Total Transactions: %d\n", report.TotalTransactions)
}

// ── Input helpers ────────────────────────────────────────────────────────────

// chooseProduct lists the catalog and prompts for a row number. Product keys
// are UUIDs, so the console selects by listing position instead of asking
// users to type an id.
func (c *Console) chooseProduct(ctx context.Context) (*dto.ProductResponse, bool) {
	products, err := c.inventory.List(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return nil, false
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No products available.")
		return nil, false
	}

	for i, p := range products {
		fmt.Fprintf(c.out, "%d. %s ($%s, stock %d)\n", i+1, p.Name, p.Price.StringFixed(2), p.Quantity)
	}
	n, ok := c.promptInt("Enter Product #: ")
	if !ok {
		return nil, false
	}
	if n < 1 || n > len(products) {
		fmt.Fprintln(c.out, "Product not found.")
		return nil, false
	}
	return &products[n-1], true
}

// prompt reads one trimmed line; ok=false means input is exhausted.
func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) promptInt(label string) (int, bool) {
	raw, ok := c.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(c.out, "Invalid input. Please enter valid numbers.")
		return 0, false
	}
	return n, true
}

func (c *Console) promptDecimal(label string) (decimal.Decimal, bool) {
	raw, ok := c.prompt(label)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		fmt.Fprintln(c.out, "Invalid input. Please enter valid values.")
		return decimal.Zero, false
	}
	return d, true
}

func categoryOrNA(category *string) string {
	if category == nil || *category == "" {
		return "N/A"
	}
	return *category
}
