package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

// NewCategoriesHandler returns an HTTP handler listing suggested categories.
// @Summary Suggested categories
// @Description Returns the suggested categories of one transaction type, or of both when type is omitted.
// @Tags categories
// @Produce json
// @Param type query string false "expense or credit"
// @Success 200 {object} models.CategoriesResponse
// @Failure 400 {object} models.ErrorResponse "Invalid type"
// @Router /categories [get]
func NewCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := models.TransactionType(r.URL.Query().Get("type"))

		var resp models.CategoriesResponse
		switch typ {
		case "":
			resp.Expense = models.SuggestedCategories(models.Expense)
			resp.Credit = models.SuggestedCategories(models.Credit)
		case models.Expense:
			resp.Expense = models.SuggestedCategories(models.Expense)
		case models.Credit:
			resp.Credit = models.SuggestedCategories(models.Credit)
		default:
			writeError(w, http.StatusBadRequest, msgInvalidType)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
