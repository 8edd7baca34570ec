package shopform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

const retryMessage = "Não foi possível salvar a barbearia. Verifique a conexão e tente novamente."

// Submit envia o formulário em etapas, cada uma só depois da anterior:
// validação, upload da imagem, create/update, normalização + ação local,
// registro da foto e fechamento do rascunho. Falha de rede deixa o
// formulário aberto e nada é despachado no store.
func (c *Controller) Submit(ctx context.Context, api remote.API, actor barbershop.User, id string) (barbershop.Shop, error) {
	f, err := c.Get(ctx, actor.ID, id)
	if err != nil {
		return barbershop.Shop{}, err
	}

	ok, err := c.drafts.Acquire(ctx, draftKey(id)+":submit", submitLock)
	if err != nil {
		return barbershop.Shop{}, fmt.Errorf("lock form: %w", err)
	}
	if !ok {
		return barbershop.Shop{}, ErrSubmitInFlight
	}
	defer func() {
		if err := c.drafts.Delete(context.WithoutCancel(ctx), draftKey(id)+":submit"); err != nil {
			slog.Warn("release form lock failed", "form_id", id, "error", err)
		}
	}()

	if err := f.Validate(); err != nil {
		return barbershop.Shop{}, err
	}

	f.Submitting = true
	if err := c.save(ctx, f); err != nil {
		return barbershop.Shop{}, err
	}

	shop, err := c.submit(ctx, api, actor, f)
	if err != nil {
		f.Submitting = false
		if serr := c.save(context.WithoutCancel(ctx), f); serr != nil {
			slog.Warn("reset form state failed", "form_id", id, "error", serr)
		}
		return barbershop.Shop{}, err
	}
	return shop, nil
}

func (c *Controller) submit(ctx context.Context, api remote.API, actor barbershop.User, f *Form) (barbershop.Shop, error) {
	// upload
	photoURL := f.PhotoURL
	if f.PreviewRef != "" {
		url, err := c.upload(ctx, api, f)
		if err != nil {
			return barbershop.Shop{}, c.networkFailure(actor.ID, "upload image", err)
		}
		photoURL = url
	}

	// create / update
	payload := f.payload(photoURL)
	var (
		raw json.RawMessage
		err error
	)
	if f.Mode == ModeCreate {
		raw, err = api.CreateShop(ctx, payload)
	} else {
		raw, err = api.UpdateShop(ctx, f.ShopID, payload)
	}
	if err != nil {
		return barbershop.Shop{}, c.networkFailure(actor.ID, "save shop", err)
	}

	// normalização e ação local
	shop := barbershop.NormalizeShopResponse(raw, payload, f.ShopID)
	snap := c.store.Snapshot()

	var actions []state.Action
	if f.Mode == ModeCreate {
		if shop.OwnerID == nil && !payload.ProvisionsOwner() {
			shop.OwnerID = actor.ID.Ptr()
		}
		actions = append(actions, state.ShopAdded{Shop: shop})
	} else {
		if prev, ok := barbershop.FindShop(snap.Shops, f.ShopID); ok {
			if len(shop.BarberIDs) == 0 {
				shop.BarberIDs = prev.BarberIDs
			}
			if shop.OwnerID == nil {
				shop.OwnerID = prev.OwnerID
			}
		}
		actions = append(actions, state.ShopEdited{Shop: shop})
	}

	// foto nova ou mantida
	if photoURL != "" {
		actions = append(actions, state.ShopPhotoRegistered{ShopID: shop.ID, URL: photoURL})
		shop.PhotoURL = photoURL
	}

	actions = append(actions, state.Notify{
		To:       actor.ID,
		Message:  fmt.Sprintf("Barbearia %s salva.", shop.Name),
		Severity: state.SeveritySuccess,
	})
	c.store.Dispatch(actions...)

	// fecha o formulário
	c.previews.Release(f.PreviewRef)
	if err := c.drafts.Delete(ctx, draftKey(f.ID)); err != nil {
		slog.Warn("delete form draft failed", "form_id", f.ID, "error", err)
	}

	return shop, nil
}

func (c *Controller) upload(ctx context.Context, api remote.API, f *Form) (string, error) {
	body, mimeType, err := c.previews.Open(f.PreviewRef)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if f.PreviewMIME != "" {
		mimeType = f.PreviewMIME
	}
	name := f.PreviewName
	if name == "" {
		name = f.PreviewRef
	}
	return api.UploadImage(ctx, name, mimeType, body)
}

// networkFailure registra, avisa o usuário e devolve o erro com contexto.
func (c *Controller) networkFailure(actor barbershop.ID, step string, err error) error {
	slog.Error("shop form submit failed", "actor_id", actor.String(), "step", step, "error", err)

	msg := retryMessage
	var remoteErr *remote.Error
	if errors.As(err, &remoteErr) && remoteErr.Message != "" && remoteErr.Status < 500 {
		msg = remoteErr.Message
	}
	c.store.Notify(actor, state.SeverityError, "%s", msg)
	return fmt.Errorf("%s: %w", step, err)
}
