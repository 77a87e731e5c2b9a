package order

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
)

// PurchaserFactory makes the throwaway identity attached to each order.
type PurchaserFactory interface {
	NewPurchaser() (domain.Purchaser, error)
}

type fakePurchasers struct {
	cost int
}

// NewFakePurchasers returns a factory producing unique fake emails and a bcrypt
// hash of a random placeholder password.
func NewFakePurchasers() PurchaserFactory {
	return fakePurchasers{cost: bcrypt.DefaultCost}
}

func (f fakePurchasers) NewPurchaser() (domain.Purchaser, error) {
	local := slug(gofakeit.FirstName()) + "." + slug(gofakeit.LastName())
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	email := strings.ToLower(fmt.Sprintf("%s.%s@%s", local, suffix, gofakeit.DomainName()))

	password := gofakeit.Password(true, true, true, false, false, 16)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), f.cost)
	if err != nil {
		return domain.Purchaser{}, fmt.Errorf("hash placeholder password: %w", err)
	}
	return domain.Purchaser{Email: email, PasswordHash: string(hash)}, nil
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "buyer"
	}
	return b.String()
}
