package service

import (
	"context"
	"errors"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"gorm.io/gorm"
)

// AddressInput is a new address. IsDefault is ignored for a user's first address,
// which always becomes the default.
type AddressInput struct {
	Label      string
	Street     string
	City       string
	Province   string
	PostalCode string
	Phone      string
	IsDefault  bool
}

// AddressUpdate holds only the fields the caller sent; nil means unchanged.
type AddressUpdate struct {
	Label      *string
	Street     *string
	City       *string
	Province   *string
	PostalCode *string
	Phone      *string
	IsDefault  *bool
}

func (u AddressUpdate) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Label != nil {
		fields["label"] = *u.Label
	}
	if u.Street != nil {
		fields["street"] = *u.Street
	}
	if u.City != nil {
		fields["city"] = *u.City
	}
	if u.Province != nil {
		fields["province"] = *u.Province
	}
	if u.PostalCode != nil {
		fields["postal_code"] = *u.PostalCode
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.IsDefault != nil {
		fields["is_default"] = *u.IsDefault
	}
	return fields
}

type AddressService interface {
	List(ctx context.Context, userID uint) ([]model.Address, error)
	Create(ctx context.Context, userID uint, input AddressInput) (*model.Address, error)
	Update(ctx context.Context, userID, addressID uint, update AddressUpdate) (*model.Address, error)
	SetDefault(ctx context.Context, userID, addressID uint) (*model.Address, error)
	Delete(ctx context.Context, userID, addressID uint) error
}

type addressService struct {
	db          *gorm.DB
	addressRepo repository.AddressRepository
}

func NewAddressService(db *gorm.DB, addressRepo repository.AddressRepository) AddressService {
	return &addressService{
		db:          db,
		addressRepo: addressRepo,
	}
}

// inOwnerTx runs fn in a transaction that holds the owner's row lock, so default-address
// changes for one user are applied one at a time.
func (s *addressService) inOwnerTx(ctx context.Context, userID uint, fn func(repo repository.AddressRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.LockOwner(userID); err != nil {
			return err
		}
		return fn(repo)
	})
}

func (s *addressService) List(ctx context.Context, userID uint) ([]model.Address, error) {
	addresses, err := s.addressRepo.WithTx(s.db.WithContext(ctx)).FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("User addresses fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

func (s *addressService) Create(ctx context.Context, userID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id":    userID,
		"label":      input.Label,
		"is_default": input.IsDefault,
	})

	address := &model.Address{
		UserID:     userID,
		Label:      input.Label,
		Street:     input.Street,
		City:       input.City,
		Province:   input.Province,
		PostalCode: input.PostalCode,
		Phone:      input.Phone,
		IsDefault:  input.IsDefault,
	}

	err := s.inOwnerTx(ctx, userID, func(repo repository.AddressRepository) error {
		count, err := repo.CountByUserID(userID)
		if err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		} else if address.IsDefault {
			if err := repo.ClearDefault(userID, 0); err != nil {
				return err
			}
		}
		return repo.Create(address)
	})
	if err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Address created successfully", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    userID,
		"is_default": address.IsDefault,
	})
	return address, nil
}

func (s *addressService) Update(ctx context.Context, userID, addressID uint, update AddressUpdate) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	var address *model.Address
	err := s.inOwnerTx(ctx, userID, func(repo repository.AddressRepository) error {
		var err error
		address, err = repo.FindByIDForUser(addressID, userID)
		if err != nil {
			return err
		}
		if update.IsDefault != nil && *update.IsDefault {
			if err := repo.ClearDefault(userID, addressID); err != nil {
				return err
			}
		}
		return repo.Updates(address, update.fields())
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found for update", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return nil, ErrAddressNotFound
		}
		logger.Error("Failed to update address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, err
	}

	logger.Info("Address updated successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return address, nil
}

func (s *addressService) SetDefault(ctx context.Context, userID, addressID uint) (*model.Address, error) {
	logger.Info("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	var address *model.Address
	err := s.inOwnerTx(ctx, userID, func(repo repository.AddressRepository) error {
		if err := repo.SetDefault(userID, addressID); err != nil {
			return err
		}
		var err error
		address, err = repo.FindByIDForUser(addressID, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found for set default", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return nil, ErrAddressNotFound
		}
		logger.Error("Failed to set default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return nil, err
	}

	logger.Info("Default address set successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return address, nil
}

// Delete removes the address. Deleting the default leaves the user without one.
func (s *addressService) Delete(ctx context.Context, userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	err := s.inOwnerTx(ctx, userID, func(repo repository.AddressRepository) error {
		address, err := repo.FindByIDForUser(addressID, userID)
		if err != nil {
			return err
		}
		return repo.Delete(address)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found for deletion", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return ErrAddressNotFound
		}
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	logger.Info("Address deleted successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return nil
}
