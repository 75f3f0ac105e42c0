package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vishalm342/ShelfSense/cmd/api/dto"
	"github.com/vishalm342/ShelfSense/cmd/api/middleware"
	"github.com/vishalm342/ShelfSense/cmd/api/services"
)

// AddLibraryBookHandler godoc
// @Summary      Add a book to the library
// @Description  Resolve a catalog volume and shelf it; re-adding refreshes the snapshot
// @Tags         library
// @Security     BearerAuth
// @Accept       json
// @Param        request  body  dto.AddLibraryBookRequestDTO  true  "Book to add"
// @Produce      json
// @Success      201  {object}  dto.LibraryEntryDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /library [post]
func AddLibraryBookHandler(librarySvc *services.LibraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.AddLibraryBookRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request_body"})
			return
		}

		entry, err := librarySvc.AddBook(c.Request.Context(), middleware.UserID(c), in)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidStatus):
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_status"})
			case errors.Is(err, services.ErrBookNotFound):
				c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "book_not_found"})
			default:
				c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_add_book"})
			}
			return
		}

		c.JSON(http.StatusCreated, entry)
	}
}

// ListLibraryHandler godoc
// @Summary      List the library
// @Description  Return the authenticated user's library entries, newest first
// @Tags         library
// @Security     BearerAuth
// @Param        page       query  int  false  "Page number (1-based)"
// @Param        page_size  query  int  false  "Page size (<=100)"
// @Produce      json
// @Success      200  {object}  dto.Pagination[dto.LibraryEntryDTO]
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /library [get]
func ListLibraryHandler(librarySvc *services.LibraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

		entries, err := librarySvc.List(c.Request.Context(), middleware.UserID(c), page, pageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_list_library"})
			return
		}

		c.JSON(http.StatusOK, entries)
	}
}

// GetLibraryEntryHandler godoc
// @Summary      Get a library entry
// @Tags         library
// @Security     BearerAuth
// @Param        id  path  string  true  "Library entry ObjectID"
// @Produce      json
// @Success      200  {object}  dto.LibraryEntryDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /library/{id} [get]
func GetLibraryEntryHandler(librarySvc *services.LibraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := librarySvc.GetEntry(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrEntryNotFound) {
				c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "entry_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_load_entry"})
			return
		}

		c.JSON(http.StatusOK, entry)
	}
}

// UpdateLibraryStatusHandler godoc
// @Summary      Update reading status
// @Description  Set the reading status of a library entry
// @Tags         library
// @Security     BearerAuth
// @Accept       json
// @Param        id       path  string                      true  "Library entry ObjectID"
// @Param        request  body  dto.UpdateStatusRequestDTO  true  "New status"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /library/{id}/status [put]
func UpdateLibraryStatusHandler(librarySvc *services.LibraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.UpdateStatusRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request_body"})
			return
		}

		err := librarySvc.UpdateStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), in.Status)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidStatus):
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_status"})
			case errors.Is(err, services.ErrEntryNotFound):
				c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "entry_not_found"})
			default:
				c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_update_status"})
			}
			return
		}

		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "status updated"})
	}
}

// RemoveLibraryBookHandler godoc
// @Summary      Remove a book from the library
// @Tags         library
// @Security     BearerAuth
// @Param        id  path  string  true  "Library entry ObjectID"
// @Produce      json
// @Success      204  {string}  string  "No content"
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /library/{id} [delete]
func RemoveLibraryBookHandler(librarySvc *services.LibraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := librarySvc.RemoveBook(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrEntryNotFound) {
				c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "entry_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_remove_book"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// ImportGoodreadsHandler godoc
// @Summary      Import a Goodreads export
// @Description  Upload a Goodreads library CSV; malformed rows are skipped and counted
// @Tags         library
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Param        file  formData  file  true  "Goodreads CSV export"
// @Produce      json
// @Success      200  {object}  dto.ImportResultDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /library/import [post]
func ImportGoodreadsHandler(librarySvc *services.LibraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "missing_file"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "unreadable_file"})
			return
		}
		defer file.Close()

		result, err := librarySvc.ImportGoodreads(c.Request.Context(), middleware.UserID(c), file)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_goodreads_export"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
