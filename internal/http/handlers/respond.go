package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Client-visible error shapes. Validation failures carry a field list;
// everything else is a single generic message so that responses never
// reveal which internal check failed.

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondValidation(ctx *gin.Context, fields []FieldError) {
	ctx.JSON(http.StatusBadRequest, gin.H{"errors": fields})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusUnauthorized, gin.H{"error": message})
}

func RespondInternal(ctx *gin.Context) {
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
