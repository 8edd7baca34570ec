package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/models"
)

type BarbershopGormRepository struct {
	db *gorm.DB
}

func NewBarbershopGormRepository(db *gorm.DB) *BarbershopGormRepository {
	return &BarbershopGormRepository{db: db}
}

// --------------------------------------------------
// Shop
// --------------------------------------------------

func (r *BarbershopGormRepository) ListShops(
	ctx context.Context,
) ([]models.Barbershop, error) {

	var shops []models.Barbershop
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *BarbershopGormRepository) GetShop(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// CreateShop cria o shop e, quando informado, o usuário dono na mesma transação.
func (r *BarbershopGormRepository) CreateShop(
	ctx context.Context,
	shop *models.Barbershop,
	owner *models.User,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if owner != nil {
			if err := tx.Create(owner).Error; err != nil {
				return err
			}
			shop.OwnerID = &owner.ID
		}
		return tx.Create(shop).Error
	})
}

func (r *BarbershopGormRepository) UpdateShop(
	ctx context.Context,
	shop *models.Barbershop,
) error {
	return r.db.WithContext(ctx).Omit("Barbers").Save(shop).Error
}

// DeleteShop solta os barbeiros, remove os serviços exclusivos e o shop.
func (r *BarbershopGormRepository) DeleteShop(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("shop_id = ?", id).
			Update("shop_id", nil).Error; err != nil {
			return err
		}

		exclusive := tx.Model(&models.Service{}).Select("id").Where("shop_id = ?", id)
		if err := tx.
			Where("service_id IN (?)", exclusive).
			Delete(&models.BarberService{}).Error; err != nil {
			return err
		}

		if err := tx.Where("shop_id = ?", id).Delete(&models.Service{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Barbershop{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// --------------------------------------------------
// Membership
// --------------------------------------------------

func (r *BarbershopGormRepository) BarberIDsByShop(
	ctx context.Context,
	shopIDs []uint,
) (map[uint][]uint, error) {

	out := make(map[uint][]uint, len(shopIDs))
	if len(shopIDs) == 0 {
		return out, nil
	}

	var rows []models.User
	if err := r.db.WithContext(ctx).
		Select("id", "shop_id").
		Where("shop_id IN ?", shopIDs).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, u := range rows {
		if u.ShopID != nil {
			out[*u.ShopID] = append(out[*u.ShopID], u.ID)
		}
	}
	return out, nil
}

// SetShopBarbers deixa exatamente barberIDs apontando para o shop.
func (r *BarbershopGormRepository) SetShopBarbers(
	ctx context.Context,
	shopID uint,
	barberIDs []uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clear := tx.Model(&models.User{}).Where("shop_id = ?", shopID)
		if len(barberIDs) > 0 {
			clear = clear.Where("id NOT IN ?", barberIDs)
		}
		if err := clear.Update("shop_id", nil).Error; err != nil {
			return err
		}

		if len(barberIDs) == 0 {
			return nil
		}

		return tx.Model(&models.User{}).
			Where("id IN ?", barberIDs).
			Update("shop_id", shopID).Error
	})
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *BarbershopGormRepository) ListUsers(
	ctx context.Context,
) ([]models.User, error) {

	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *BarbershopGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BarbershopGormRepository) ListUsersByIDs(
	ctx context.Context,
	ids []uint,
) ([]models.User, error) {

	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *BarbershopGormRepository) FindUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BarbershopGormRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *BarbershopGormRepository) UpdateUser(
	ctx context.Context,
	user *models.User,
) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BarbershopGormRepository) ListServices(
	ctx context.Context,
	shopID *uint,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).Order("id ASC")
	if shopID != nil {
		q = q.Where("shop_id IS NULL OR shop_id = ?", *shopID)
	}

	var services []models.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *BarbershopGormRepository) CreateService(
	ctx context.Context,
	service *models.Service,
) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// DeleteService remove o serviço e as ofertas dos barbeiros que o usam.
func (r *BarbershopGormRepository) DeleteService(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("service_id = ?", id).
			Delete(&models.BarberService{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Service{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *BarbershopGormRepository) ListServicesByIDs(
	ctx context.Context,
	ids []uint,
) ([]models.Service, error) {

	if len(ids) == 0 {
		return []models.Service{}, nil
	}

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Barber services
// --------------------------------------------------

func (r *BarbershopGormRepository) ListBarberServices(
	ctx context.Context,
	barberIDs []uint,
) (map[uint][]uint, error) {

	out := make(map[uint][]uint, len(barberIDs))
	if len(barberIDs) == 0 {
		return out, nil
	}

	var rows []models.BarberService
	if err := r.db.WithContext(ctx).
		Where("barber_id IN ?", barberIDs).
		Order("barber_id ASC, service_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, bid := range barberIDs {
		out[bid] = []uint{}
	}
	for _, row := range rows {
		out[row.BarberID] = append(out[row.BarberID], row.ServiceID)
	}
	return out, nil
}

// ReplaceBarberServices sobrescreve por inteiro o conjunto de cada barbeiro do mapa.
func (r *BarbershopGormRepository) ReplaceBarberServices(
	ctx context.Context,
	mapping map[uint][]uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for barberID, serviceIDs := range mapping {
			if err := tx.
				Where("barber_id = ?", barberID).
				Delete(&models.BarberService{}).Error; err != nil {
				return err
			}

			if len(serviceIDs) == 0 {
				continue
			}

			rows := make([]models.BarberService, 0, len(serviceIDs))
			for _, sid := range serviceIDs {
				rows = append(rows, models.BarberService{
					BarberID:  barberID,
					ServiceID: sid,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Compile-time check
var _ domain.Repository = (*BarbershopGormRepository)(nil)
