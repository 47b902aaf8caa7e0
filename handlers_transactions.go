package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"bankline/models"
	"bankline/pkg/apierr"
	"bankline/pkg/money"
	"bankline/pkg/summary"

	"github.com/gin-gonic/gin"
)

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, apierr.Validation("invalid id")
	}
	return uint(v), nil
}

type transactionRequest struct {
	Date     string      `json:"date" binding:"required"` // dd/mm/yyyy
	Alias    string      `json:"alias"`
	Category string      `json:"category" binding:"required"`
	Value    json.Number `json:"value" binding:"required"`
}

// parse validates the request against the domain rules and returns the
// storable fields.
func (r transactionRequest) parse() (time.Time, models.Category, int64, error) {
	date, err := time.Parse(models.DateLayout, r.Date)
	if err != nil {
		return time.Time{}, "", 0, apierr.Validation("invalid date, expected dd/mm/yyyy")
	}
	cat := models.Category(r.Category)
	if !cat.Valid() {
		return time.Time{}, "", 0, apierr.Validation("unknown category, expected one of: " + models.CategoryList())
	}
	cents, err := money.ParseCents(r.Value.String())
	if err != nil {
		return time.Time{}, "", 0, apierr.Validation("invalid value, expected a non-negative amount with at most 2 decimals")
	}
	return date, cat, cents, nil
}

type transactionResponse struct {
	ID        uint   `json:"id"`
	Date      string `json:"date"`
	Alias     string `json:"alias,omitempty"`
	Category  string `json:"category"`
	Direction string `json:"direction"`
	Value     string `json:"value"`
}

func toResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		Date:      t.Date.Format(models.DateLayout),
		Alias:     t.Alias,
		Category:  string(t.Category),
		Direction: string(t.Category.Direction()),
		Value:     money.FormatCents(t.Amount),
	}
}

func createTransactionHandler(c *gin.Context) {
	uid, err := actingUserID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation(err.Error()))
		return
	}
	date, cat, cents, err := req.parse()
	if err != nil {
		fail(c, err)
		return
	}
	gdb, err := getDB()
	if err != nil {
		fail(c, err)
		return
	}
	tx := models.Transaction{UserID: uid, Alias: req.Alias, Category: cat, Amount: cents, Date: date}
	if err := gdb.Create(&tx).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(tx))
}

func listTransactionsHandler(c *gin.Context) {
	uid, err := actingUserID(c)
	if err != nil {
		fail(c, err)
		return
	}
	gdb, err := getDB()
	if err != nil {
		fail(c, err)
		return
	}
	var items []models.Transaction
	if err := gdb.Where("user_id = ?", uid).Order("id desc").Limit(200).Find(&items).Error; err != nil {
		fail(c, err)
		return
	}
	out := make([]transactionResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

// ownedTransaction loads the transaction and verifies the acting user owns
// it. Non-owners get the same not-found as a missing row so existence of
// other users' records does not leak.
func ownedTransaction(c *gin.Context) (*models.Transaction, error) {
	uid, err := actingUserID(c)
	if err != nil {
		return nil, err
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return nil, err
	}
	gdb, err := getDB()
	if err != nil {
		return nil, err
	}
	var tx models.Transaction
	if err := gdb.First(&tx, id).Error; err != nil {
		return nil, apierr.NotFound("transaction not found")
	}
	if tx.UserID != uid {
		return nil, apierr.NotFound("transaction not found")
	}
	return &tx, nil
}

func getTransactionHandler(c *gin.Context) {
	tx, err := ownedTransaction(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*tx))
}

// updateTransactionHandler replaces the mutable fields. Concurrent updates
// to the same record are last-write-wins; the persistence layer does not
// serialize them further.
func updateTransactionHandler(c *gin.Context) {
	tx, err := ownedTransaction(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation(err.Error()))
		return
	}
	date, cat, cents, err := req.parse()
	if err != nil {
		fail(c, err)
		return
	}
	gdb, err := getDB()
	if err != nil {
		fail(c, err)
		return
	}
	tx.Date = date
	tx.Alias = req.Alias
	tx.Category = cat
	tx.Amount = cents
	if err := gdb.Save(tx).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*tx))
}

func deleteTransactionHandler(c *gin.Context) {
	tx, err := ownedTransaction(c)
	if err != nil {
		fail(c, err)
		return
	}
	gdb, err := getDB()
	if err != nil {
		fail(c, err)
		return
	}
	if err := gdb.Delete(tx).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// computeSummary runs the grouped-sum query for one user and folds the rows.
func computeSummary(uid uint) (summary.Summary, error) {
	gdb, err := getDB()
	if err != nil {
		return summary.Summary{}, err
	}
	rows, err := gdb.Model(&models.Transaction{}).
		Where("user_id = ?", uid).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Group("category").
		Rows()
	if err != nil {
		return summary.Summary{}, err
	}
	defer rows.Close()
	var totals []summary.CategoryTotal
	for rows.Next() {
		var ct summary.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return summary.Summary{}, err
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return summary.Summary{}, err
	}
	s, unknown := summary.Compute(totals)
	for _, cat := range unknown {
		log.Printf("summary: skipping unknown category %q for user %d", cat, uid)
	}
	return s, nil
}

// summaryHandler returns the derived balance and breakdown. Query errors
// propagate to the client unmodified in classification.
func summaryHandler(c *gin.Context) {
	uid, err := actingUserID(c)
	if err != nil {
		fail(c, err)
		return
	}
	s, err := computeSummary(uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// dashboardHandler backs the landing view. If summary computation fails it
// logs and presents the zero summary rather than failing the whole view.
func dashboardHandler(c *gin.Context) {
	uid, err := actingUserID(c)
	if err != nil {
		fail(c, err)
		return
	}
	s, err := computeSummary(uid)
	if err != nil {
		log.Printf("dashboard: summary failed for user %d, serving zero summary: %v", uid, err)
		s = summary.Zero()
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":   money.FormatCents(s.Balance),
		"summary":   s,
		"generated": time.Now().UTC().Format(time.RFC3339),
	})
}
