package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
)

// respond writes the success envelope: status plus data keyed by resource
// name, matching the public API shape.
func respond(c echo.Context, status int, key string, value interface{}) error {
	return c.JSON(status, echo.Map{
		"status": "success",
		"data":   echo.Map{key: value},
	})
}

// respondList is respond with a result count for collection reads.
func respondList(c echo.Context, status int, key string, results int, value interface{}) error {
	return c.JSON(status, echo.Map{
		"status":  "success",
		"results": results,
		"data":    echo.Map{key: value},
	})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid id: %s", c.Param("id"))
	}
	return id, nil
}
