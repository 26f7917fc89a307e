package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/UsagiiTsukino/medchain-api/internal/rates"
)

// RatesHandler exposes the cached exchange rates.
type RatesHandler struct {
	rates *rates.Service
}

func NewRatesHandler(svc *rates.Service) *RatesHandler {
	return &RatesHandler{rates: svc}
}

type convertResponse struct {
	AmountVnd float64 `json:"amountVnd"`
	AmountEth float64 `json:"amountEth"`
	EthToVnd  float64 `json:"ethToVnd"`
}

// Get handles GET /v1/rates.
//
// @Summary      Current exchange rates
// @Tags         rates
// @Produce      json
// @Success      200  {object}  rates.Rates
// @Router       /v1/rates [get]
func (h *RatesHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.rates.Current())
}

// Convert handles GET /v1/rates/convert?amount=<vnd>.
//
// @Summary      Convert a VND amount to ETH
// @Tags         rates
// @Produce      json
// @Param        amount  query     number  true  "Amount in VND"
// @Success      200     {object}  convertResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/rates/convert [get]
func (h *RatesHandler) Convert(c echo.Context) error {
	amount, err := strconv.ParseFloat(c.QueryParam("amount"), 64)
	if err != nil || amount < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be a non-negative number")
	}

	return c.JSON(http.StatusOK, convertResponse{
		AmountVnd: amount,
		AmountEth: h.rates.ConvertVndToEth(amount),
		EthToVnd:  h.rates.Current().EthToVnd,
	})
}
