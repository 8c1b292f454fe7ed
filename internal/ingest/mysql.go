package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

var tableName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// OpenMySQL accepts mariadb:// and mysql:// URLs as well as native driver
// DSNs.
func OpenMySQL(dsn string) (*sql.DB, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user, pass := "", ""
		if u.User != nil {
			user = u.User.Username()
			pass, _ = u.User.Password()
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

const salesQuery = `
	SELECT order_date, order_number, customer_id, customer_name, city,
	       sale_representative, status, total_values, total_commission
	FROM %s
	ORDER BY order_date, order_number`

const linesQuery = `
	SELECT order_id, sku, product_name, quantity, unit_price, line_total
	FROM %s`

// LoadTransactions reads every row of a sales table. Rows with a NULL
// order date are skipped and counted, NULL amounts read as zero.
func LoadTransactions(ctx context.Context, db *sql.DB, table string) ([]models.Transaction, int, error) {
	if !tableName.MatchString(table) {
		return nil, 0, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf(salesQuery, table))
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	skipped := 0
	for rows.Next() {
		var (
			date                                 sql.NullTime
			order, custID, name, city, rep, stat sql.NullString
			value, commission                    decimal.NullDecimal
		)
		if err := rows.Scan(&date, &order, &custID, &name, &city, &rep, &stat, &value, &commission); err != nil {
			return nil, skipped, fmt.Errorf("scan %s: %w", table, err)
		}
		if !date.Valid {
			skipped++
			continue
		}
		y, m, d := date.Time.Date()
		out = append(out, models.Transaction{
			OrderDate:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			OrderNumber:     order.String,
			CustomerID:      custID.String,
			CustomerName:    name.String,
			City:            city.String,
			Representative:  rep.String,
			Status:          stat.String,
			TotalValue:      value.Decimal,
			TotalCommission: commission.Decimal,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, skipped, err
	}
	return out, skipped, nil
}

// LoadLineItems reads every row of an order-lines table. Rows without a
// SKU are skipped and counted; zero totals are rebuilt as in CSV imports.
func LoadLineItems(ctx context.Context, db *sql.DB, table string) ([]models.LineItem, int, error) {
	if !tableName.MatchString(table) {
		return nil, 0, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf(linesQuery, table))
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	out := []models.LineItem{}
	skipped := 0
	for rows.Next() {
		var (
			order, sku, name sql.NullString
			qty              sql.NullInt64
			unit, total      decimal.NullDecimal
		)
		if err := rows.Scan(&order, &sku, &name, &qty, &unit, &total); err != nil {
			return nil, skipped, fmt.Errorf("scan %s: %w", table, err)
		}
		if strings.TrimSpace(sku.String) == "" {
			skipped++
			continue
		}
		out = append(out, models.LineItem{
			OrderID:     order.String,
			SKU:         sku.String,
			ProductName: name.String,
			Quantity:    int(qty.Int64),
			UnitPrice:   unit.Decimal,
			Total:       total.Decimal,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, skipped, err
	}
	rebuildZeroTotals(out)
	return out, skipped, nil
}

// FromMySQL loads the sales table and, when linesTable is set, the
// order-lines table, then stores the dataset.
func (l *Loader) FromMySQL(ctx context.Context, db *sql.DB, salesTable, linesTable string) (*models.Dataset, error) {
	txns, skipped, err := LoadTransactions(ctx, db, salesTable)
	if err != nil {
		return nil, err
	}
	ds := &models.Dataset{Name: "mysql:" + salesTable, Transactions: txns, Skipped: skipped}
	countRecords("transactions", len(txns), skipped)
	if linesTable != "" {
		items, skippedLines, err := LoadLineItems(ctx, db, linesTable)
		if err != nil {
			return nil, err
		}
		ds.LineItems = items
		ds.Skipped += skippedLines
		countRecords("line_items", len(items), skippedLines)
	}
	l.put(ds)
	return ds, nil
}
