package repository

import (
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddressRepository interface {
	// WithTx returns a repository bound to tx (a transaction or a context-scoped session).
	WithTx(tx *gorm.DB) AddressRepository
	LockOwner(userID uint) error
	Create(address *model.Address) error
	FindByUserID(userID uint) ([]model.Address, error)
	FindByIDForUser(id, userID uint) (*model.Address, error)
	CountByUserID(userID uint) (int64, error)
	Updates(address *model.Address, fields map[string]interface{}) error
	ClearDefault(userID, exceptID uint) error
	SetDefault(userID, addressID uint) error
	Delete(address *model.Address) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) WithTx(tx *gorm.DB) AddressRepository {
	return &addressRepository{db: tx}
}

// LockOwner takes a row lock on the owning user so that default-address changes
// for one user run one at a time. A no-op on SQLite, where writers are already serialized.
func (r *addressRepository) LockOwner(userID uint) error {
	var user model.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&user, userID).Error
	if err != nil {
		logger.Error("Failed to lock address owner", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Create(address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"user_id":    address.UserID,
		"label":      address.Label,
		"is_default": address.IsDefault,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": address.UserID,
			"label":   address.Label,
		})
		return err
	}

	logger.Debug("Address created in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})
	return nil
}

func (r *addressRepository) FindByUserID(userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC, id DESC").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find addresses by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Addresses found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

// FindByIDForUser returns gorm.ErrRecordNotFound both for a missing row and for another user's row.
func (r *addressRepository) FindByIDForUser(id, userID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Address{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Updates applies only the given columns, then reloads the row.
func (r *addressRepository) Updates(address *model.Address, fields map[string]interface{}) error {
	if len(fields) > 0 {
		if err := r.db.Model(address).Updates(fields).Error; err != nil {
			logger.Error("Failed to update address in database", err, map[string]interface{}{
				"address_id": address.ID,
				"user_id":    address.UserID,
			})
			return err
		}
	}
	return r.db.First(address, address.ID).Error
}

// ClearDefault unsets is_default on every live address of the user except exceptID (0 clears all).
func (r *addressRepository) ClearDefault(userID, exceptID uint) error {
	q := r.db.Model(&model.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Update("is_default", false).Error; err != nil {
		logger.Error("Failed to clear default addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

// SetDefault must run inside the caller's transaction; it clears then sets so the
// partial unique index never sees two defaults.
func (r *addressRepository) SetDefault(userID, addressID uint) error {
	if err := r.ClearDefault(userID, 0); err != nil {
		return err
	}

	res := r.db.Model(&model.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Update("is_default", true)
	if res.Error != nil {
		logger.Error("Failed to set address as default", res.Error, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Default address set", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

func (r *addressRepository) Delete(address *model.Address) error {
	if err := r.db.Delete(address).Error; err != nil {
		logger.Error("Failed to delete address from database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}

	logger.Debug("Address deleted from database", map[string]interface{}{
		"address_id": address.ID,
	})
	return nil
}
