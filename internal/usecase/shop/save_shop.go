package shop

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-manager/internal/audit"
	domain "github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/dto"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/models"
	"github.com/BruksfildServices01/barber-manager/internal/validators"
)

const minOwnerPassword = 6

type SaveShopInput struct {
	Actor Actor
	// zero cria um shop novo
	ShopID  uint
	Payload domain.ShopPayload
}

type SaveShop struct {
	repo        domain.Repository
	audit       *audit.Dispatcher
	emailDomain validators.EmailCheck
}

func NewSaveShop(
	repo domain.Repository,
	audit *audit.Dispatcher,
	emailDomain validators.EmailCheck,
) *SaveShop {
	if emailDomain == nil {
		emailDomain = validators.IsEmailDomainValid
	}
	return &SaveShop{
		repo:        repo,
		audit:       audit,
		emailDomain: emailDomain,
	}
}

func (uc *SaveShop) Execute(
	ctx context.Context,
	in SaveShopInput,
) (*domain.Shop, error) {

	p := in.Payload

	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, httperr.ErrBusiness("name_required")
	}
	if !validCoordinate(p.Latitude, 90) || !validCoordinate(p.Longitude, 180) {
		return nil, httperr.ErrBusiness("invalid_coordinates")
	}

	var barberIDs []uint
	if p.BarberIDs != nil {
		ids, err := uintIDs(*p.BarberIDs, "invalid_barber_id")
		if err != nil {
			return nil, err
		}
		users, err := uc.repo.ListUsersByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(users) != len(ids) {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
		barberIDs = ids
	}

	var (
		shop   *models.Barbershop
		action string
	)

	if in.ShopID == 0 {
		shop = &models.Barbershop{}
		action = "shop_created"
	} else {
		existing, err := uc.repo.GetShop(ctx, in.ShopID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return nil, httperr.ErrBusiness("shop_not_found")
			}
			return nil, err
		}
		if !in.Actor.canManage(existing) {
			return nil, httperr.ErrBusiness("forbidden")
		}
		shop = existing
		action = "shop_updated"
	}

	shop.Name = name
	shop.Address = strings.TrimSpace(p.Address)
	shop.Sector = strings.TrimSpace(p.Sector)
	shop.City = strings.TrimSpace(p.City)
	shop.Phone = strings.TrimSpace(p.Phone)
	shop.Email = strings.TrimSpace(p.Email)
	shop.WhatsApp = strings.TrimSpace(p.WhatsApp)
	shop.Latitude = strings.TrimSpace(p.Latitude)
	shop.Longitude = strings.TrimSpace(p.Longitude)
	shop.Categories = datatypes.NewJSONType(domain.CategoryMap(domain.CategoryKeys(p.Categories)))
	if p.PhotoURL != "" {
		shop.PhotoURL = p.PhotoURL
	}

	if in.ShopID == 0 {
		owner, err := uc.provisionOwner(ctx, p)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			shop.OwnerID = in.Actor.userIDPtr()
		}
		if err := uc.repo.CreateShop(ctx, shop, owner); err != nil {
			if httperr.IsUniqueViolation(err) {
				return nil, httperr.ErrBusiness("email_already_exists")
			}
			return nil, err
		}
	} else {
		if err := uc.repo.UpdateShop(ctx, shop); err != nil {
			return nil, err
		}
	}

	if p.BarberIDs != nil {
		if err := uc.repo.SetShopBarbers(ctx, shop.ID, barberIDs); err != nil {
			return nil, err
		}
	}

	members, err := uc.repo.BarberIDsByShop(ctx, []uint{shop.ID})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       in.Actor.userIDPtr(),
		Action:       action,
		Entity:       "barbershop",
		EntityID:     &shop.ID,
		Metadata: map[string]any{
			"barber_ids": members[shop.ID],
		},
	})

	out := dto.Shop(*shop, members[shop.ID])
	return &out, nil
}

// provisionOwner monta a conta do dono quando o payload traz os campos.
func (uc *SaveShop) provisionOwner(
	ctx context.Context,
	p domain.ShopPayload,
) (*models.User, error) {

	if !p.ProvisionsOwner() {
		return nil, nil
	}

	name := strings.TrimSpace(p.OwnerName)
	if name == "" {
		return nil, httperr.ErrBusiness("owner_name_required")
	}

	email := validators.NormalizeEmail(p.OwnerEmail)
	if !validators.IsEmailFormatValid(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}
	if !uc.emailDomain(email) {
		return nil, httperr.ErrBusiness("invalid_email_domain")
	}
	if len(p.OwnerPassword) < minOwnerPassword {
		return nil, httperr.ErrBusiness("password_too_short")
	}

	if _, err := uc.repo.FindUserByEmail(ctx, email); err == nil {
		return nil, httperr.ErrBusiness("email_already_exists")
	} else if !httperr.IsNotFound(err) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(p.Phone),
		Role:         domain.NewRoleSet(domain.RoleOwner).Label(),
	}, nil
}
