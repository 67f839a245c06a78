package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/domain"
)

func appQueFalla(err error) *fiber.App {
	app := fiber.New()
	app.Get("/fallo", func(c *fiber.Ctx) error { return respondError(c, err) })
	return app
}

func cuerpoError(t *testing.T, app *fiber.App) (int, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/fallo", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestRespondError_ErrorInternoNoExponeElDetalle(t *testing.T) {
	interno := errors.New(`pq: insert en movimientos violó la constraint "movimientos_banco_id_fkey"`)
	status, body := cuerpoError(t, appQueFalla(interno))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "error interno", body.Message, "el detalle del error no debe llegar al cliente")
	assert.NotContains(t, body.Message, "pq:")
}

func TestRespondError_CentinelaEnvueltoSeMapea(t *testing.T) {
	// El motor envuelve los centinelas; el mapeo debe atravesar el wrap.
	envuelto := fmt.Errorf("cargar venta: %w", domain.ErrNotFound)
	status, body := cuerpoError(t, appQueFalla(envuelto))

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestRespondError_ConflictosDeNegocio(t *testing.T) {
	casos := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrMontoExcedeRestante, fiber.StatusConflict, "MONTO_EXCEDE_RESTANTE"},
		{domain.ErrSaldoInsuficiente, fiber.StatusConflict, "SALDO_INSUFICIENTE"},
		{domain.ErrMargenNegativo, fiber.StatusUnprocessableEntity, "MARGEN_NEGATIVO"},
		{domain.ErrMismoBanco, fiber.StatusBadRequest, "MISMO_BANCO"},
	}
	for _, caso := range casos {
		status, body := cuerpoError(t, appQueFalla(caso.err))
		assert.Equal(t, caso.status, status, caso.code)
		assert.Equal(t, caso.code, body.Code)
	}
}
