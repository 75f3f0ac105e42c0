package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vishalm342/ShelfSense/cmd/api/dto"
	"github.com/vishalm342/ShelfSense/cmd/api/services"
)

// SearchBooksHandler godoc
// @Summary      Search the book catalog
// @Description  Full-text search against the catalog; upstream outages yield an empty result set
// @Tags         books
// @Param        q            query  string  true   "Search query"
// @Param        max_results  query  int     false  "Max results (1-40, default 20)"
// @Produce      json
// @Success      200  {object}  dto.BookSearchResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /books/search [get]
func SearchBooksHandler(bookSvc *services.BookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "missing_query"})
			return
		}
		maxResults, _ := strconv.Atoi(c.DefaultQuery("max_results", "20"))

		c.JSON(http.StatusOK, bookSvc.Search(c.Request.Context(), query, maxResults))
	}
}

// GetBookHandler godoc
// @Summary      Get a catalog volume
// @Description  Look up a single volume by its catalog ID
// @Tags         books
// @Param        id  path  string  true  "Catalog volume ID"
// @Produce      json
// @Success      200  {object}  dto.BookDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /books/{id} [get]
func GetBookHandler(bookSvc *services.BookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		book, err := bookSvc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrBookNotFound) {
				c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "book_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_load_book"})
			return
		}

		c.JSON(http.StatusOK, book)
	}
}
