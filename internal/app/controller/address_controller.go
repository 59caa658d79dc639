package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	"github.com/hanzla-outlet/outlet-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type CreateAddressRequest struct {
	Label      string `json:"label" binding:"max=50"`
	Street     string `json:"street" binding:"required,max=255"`
	City       string `json:"city" binding:"required,max=100"`
	Province   string `json:"province" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Phone      string `json:"phone" binding:"max=32"`
	IsDefault  bool   `json:"is_default"`
}

// UpdateAddressRequest applies only the fields present in the body.
type UpdateAddressRequest struct {
	Label      *string `json:"label" binding:"omitempty,max=50"`
	Street     *string `json:"street" binding:"omitempty,min=1,max=255"`
	City       *string `json:"city" binding:"omitempty,min=1,max=100"`
	Province   *string `json:"province" binding:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" binding:"omitempty,max=20"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
	IsDefault  *bool   `json:"is_default"`
}

// ListAddresses returns the user's addresses, default first
// GET /api/v1/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	addresses, err := ctrl.addressService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// CreateAddress creates a new address
// POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	address, err := ctrl.addressService.Create(c.Request.Context(), userID, service.AddressInput{
		Label:      req.Label,
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		respondError(c, err, "create address")
		return
	}

	log.Info("Address created successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
		"is_default": address.IsDefault,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"address": address,
	})
}

// UpdateAddress updates an existing address
// PATCH /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	address, err := ctrl.addressService.Update(c.Request.Context(), userID, addressID, service.AddressUpdate{
		Label:      req.Label,
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		respondError(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"address": address,
	})
}

// SetDefaultAddress makes the address the user's only default
// POST /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	address, err := ctrl.addressService.SetDefault(c.Request.Context(), userID, addressID)
	if err != nil {
		respondError(c, err, "set default address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default address updated",
		"address": address,
	})
}

// DeleteAddress removes an address
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.addressService.Delete(c.Request.Context(), userID, addressID); err != nil {
		respondError(c, err, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
	})
}
