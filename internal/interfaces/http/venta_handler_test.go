package http_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyadistribucion/gya-api/internal/application/dto"
	apphttp "github.com/gyadistribucion/gya-api/internal/interfaces/http"
)

// appVentas registra solo las rutas de venta, sin middleware: los cuerpos
// inválidos deben rechazarse antes de tocar el motor.
func appVentas(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := apphttp.NewVentaHandler(nil, nil, nil, nil)
	app.Post("/api/ventas/:id/abonos", h.Abono)
	app.Post("/api/ventas/:id/devoluciones", h.Devolucion)
	return app
}

func postJSON(t *testing.T, app *fiber.App, ruta, cuerpo string) (int, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", ruta, strings.NewReader(cuerpo))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestAbono_SinMontoSeRechazaAntesDelMotor(t *testing.T) {
	status, body := postJSON(t, appVentas(t), "/api/ventas/v-1/abonos", `{}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "Monto")
}

func TestAbono_CuerpoNoJSONSeRechaza(t *testing.T) {
	status, body := postJSON(t, appVentas(t), "/api/ventas/v-1/abonos", `no-es-json`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", body.Code)
}

func TestDevolucion_SinCantidadSeRechazaAntesDelMotor(t *testing.T) {
	status, body := postJSON(t, appVentas(t), "/api/ventas/v-1/devoluciones", `{}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
}
