package ledger

import (
	"fmt"
	"strings"
	"time"
)

type Customer struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Phone           string    `json:"phone" yaml:"phone"`
	CommissionRates Rates     `json:"commission_rates" yaml:"commission_rates"`
	LedgerAccountID string    `json:"ledger_account_id" yaml:"ledger_account_id"`
	JoinedAt        time.Time `json:"joined_at" yaml:"-"`
}

// CustomerUpdate is a partial edit; nil fields are left alone.
type CustomerUpdate struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	CommissionRates *Rates  `json:"commission_rates,omitempty"`
}

// Apply returns c with the non-nil fields of u applied.
func (u CustomerUpdate) Apply(c Customer) (Customer, error) {
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return c, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
		}
		c.Name = *u.Name
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.CommissionRates != nil {
		if err := u.CommissionRates.Validate(); err != nil {
			return c, err
		}
		c.CommissionRates = *u.CommissionRates
	}
	return c, nil
}

// PGConfig is a payment gateway configured on a wallet, with its MDR per card network.
type PGConfig struct {
	Name    string `json:"name" yaml:"name"`
	Charges Rates  `json:"charges" yaml:"charges"`
}

func (p PGConfig) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: payment gateway name is required", ErrInvalidInput)
	}
	return p.Charges.Validate()
}

type Wallet struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	LedgerAccountID string     `json:"ledger_account_id" yaml:"ledger_account_id"`
	PGs             []PGConfig `json:"pgs" yaml:"pgs"`
}

// PG finds a payment gateway by name.
func (w *Wallet) PG(name string) (PGConfig, bool) {
	for _, pg := range w.PGs {
		if pg.Name == name {
			return pg, true
		}
	}
	return PGConfig{}, false
}

// WithPG returns a copy of the wallet with pg appended.
func (w Wallet) WithPG(pg PGConfig) (Wallet, error) {
	if err := pg.Validate(); err != nil {
		return w, err
	}
	if _, ok := w.PG(pg.Name); ok {
		return w, fmt.Errorf("%w: %s", ErrDuplicatePG, pg.Name)
	}
	pgs := make([]PGConfig, 0, len(w.PGs)+1)
	pgs = append(pgs, w.PGs...)
	w.PGs = append(pgs, pg)
	return w, nil
}

// ReplacePG returns a copy of the wallet with the gateway named oldName replaced by pg.
func (w Wallet) ReplacePG(oldName string, pg PGConfig) (Wallet, error) {
	if err := pg.Validate(); err != nil {
		return w, err
	}
	if _, ok := w.PG(oldName); !ok {
		return w, fmt.Errorf("%w: %s", ErrPGNotFound, oldName)
	}
	if pg.Name != oldName {
		if _, ok := w.PG(pg.Name); ok {
			return w, fmt.Errorf("%w: %s", ErrDuplicatePG, pg.Name)
		}
	}
	pgs := make([]PGConfig, len(w.PGs))
	for i, existing := range w.PGs {
		if existing.Name == oldName {
			pgs[i] = pg
		} else {
			pgs[i] = existing
		}
	}
	w.PGs = pgs
	return w, nil
}

// Clone returns a deep copy so callers cannot alias the stored PG slice.
func (w Wallet) Clone() Wallet {
	w.PGs = append([]PGConfig(nil), w.PGs...)
	return w
}
