package barbershop

import (
	"context"

	"github.com/BruksfildServices01/barber-manager/internal/models"
)

// Repository é a persistência da plataforma. O vínculo barbeiro → shop
// existe só em users.shop_id.
type Repository interface {
	// -------- Shop --------
	ListShops(ctx context.Context) ([]models.Barbershop, error)
	GetShop(ctx context.Context, id uint) (*models.Barbershop, error)
	CreateShop(ctx context.Context, shop *models.Barbershop, owner *models.User) error
	UpdateShop(ctx context.Context, shop *models.Barbershop) error
	DeleteShop(ctx context.Context, id uint) error

	// -------- Membership --------
	BarberIDsByShop(ctx context.Context, shopIDs []uint) (map[uint][]uint, error)
	SetShopBarbers(ctx context.Context, shopID uint, barberIDs []uint) error

	// -------- User --------
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error

	// -------- Service --------
	// shopID nil lista todos; caso contrário, os gerais mais os exclusivos do shop.
	ListServices(ctx context.Context, shopID *uint) ([]models.Service, error)
	ListServicesByIDs(ctx context.Context, ids []uint) ([]models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id uint) error

	// -------- Barber services --------
	ListBarberServices(ctx context.Context, barberIDs []uint) (map[uint][]uint, error)
	ReplaceBarberServices(ctx context.Context, mapping map[uint][]uint) error
}
