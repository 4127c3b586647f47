package rest

import (
	"context"
	"net/http"
	"time"

	"storefront/business/address"
	"storefront/domain"

	"github.com/labstack/echo/v4"
)

type AddressService interface {
	List(ctx context.Context, userID uint) ([]domain.Address, error)
	Add(ctx context.Context, userID uint, in address.AddressInput) (domain.Address, error)
	Update(ctx context.Context, userID, id uint, in address.AddressInput) (domain.Address, error)
	Delete(ctx context.Context, userID, id uint) error
}

type AddressHandler struct {
	addressService AddressService
	timeout        time.Duration
}

func NewAddressHandler(addressService AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		timeout:        defaultTimeout,
	}
}

type AddressRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"isDefault"`
}

func (r AddressRequest) input() address.AddressInput {
	return address.AddressInput{
		Name:       r.Name,
		Address:    r.Address,
		City:       r.City,
		Country:    r.Country,
		PostalCode: r.PostalCode,
		Phone:      r.Phone,
		IsDefault:  r.IsDefault,
	}
}

func (h *AddressHandler) GetAddresses(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	addresses, err := h.addressService.List(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"address": addresses,
	})
}

func (h *AddressHandler) AddAddress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req AddressRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.addressService.Add(ctx, userID, req.input())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"address": created,
	})
}

func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req AddressRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.addressService.Update(ctx, userID, id, req.input())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"address": updated,
	})
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.addressService.Delete(ctx, userID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Address deleted successfully",
	})
}
