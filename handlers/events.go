package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StorageEvent accepts webhook-style delivery of a storage
// object-creation notification and runs the processing worker on it.
// A failure leaves redelivery to the sender.
func (g *Gateway) StorageEvent(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	if err := g.Worker.HandleNotification(c.Request().Context(), payload); err != nil {
		log.Errorf("error processing storage event: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Video processing completed"})
}
