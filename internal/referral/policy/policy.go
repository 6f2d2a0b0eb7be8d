// Package policy holds the level table and the fee rules applied to
// registration and upgrade payments.
package policy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CompanyFeePolicy selects which payments produce a company fee ledger entry.
type CompanyFeePolicy string

const (
	// CompanyFeeOnEveryReward writes a company REWARD entry for registrations and upgrades.
	CompanyFeeOnEveryReward CompanyFeePolicy = "every_reward"
	// CompanyFeeOnRegistrationOnly writes the company REWARD entry for registrations only.
	// The upgrade fee is still withheld from the recipient but has no ledger row
	// of its own: it stays with the settlement contract and shows in the ledger
	// only as the UPGRADE amount minus the recipient REWARD.
	CompanyFeeOnRegistrationOnly CompanyFeePolicy = "registration_only"

	DefaultCompanyFeePolicy = CompanyFeeOnEveryReward
)

//go:embed levels.yaml
var defaultDocument []byte

var hundred = decimal.NewFromInt(100)

// Policy is the static level table plus fee configuration.
type Policy struct {
	levels            map[int]model.LevelDefinition
	serviceFee        decimal.Decimal
	companyFeePercent decimal.Decimal
	companyFee        CompanyFeePolicy
}

type document struct {
	ServiceFee        string           `yaml:"service_fee"`
	CompanyFeePercent string           `yaml:"company_fee_percent"`
	CompanyFeePolicy  CompanyFeePolicy `yaml:"company_fee_policy"`
	Levels            []levelDocument  `yaml:"levels"`
}

type levelDocument struct {
	Level              int    `yaml:"level"`
	Price              string `yaml:"price"`
	MinDirectReferrals int    `yaml:"min_direct_referrals"`
	MinAncestorDepth   int    `yaml:"min_ancestor_depth"`
}

// Default returns the policy shipped with the binary.
func Default() (*Policy, error) {
	return Parse(defaultDocument)
}

// Load reads a policy document from disk. An empty path yields the default policy.
func Load(path string) (*Policy, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML policy document.
func Parse(data []byte) (*Policy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}

	serviceFee, err := decimal.NewFromString(doc.ServiceFee)
	if err != nil {
		return nil, fmt.Errorf("parse service fee: %w", err)
	}
	if serviceFee.IsNegative() {
		return nil, errors.New("service fee must not be negative")
	}
	feePercent, err := decimal.NewFromString(doc.CompanyFeePercent)
	if err != nil {
		return nil, fmt.Errorf("parse company fee percent: %w", err)
	}
	if feePercent.IsNegative() || feePercent.GreaterThan(hundred) {
		return nil, fmt.Errorf("company fee percent %s out of range", feePercent)
	}

	feePolicy := doc.CompanyFeePolicy
	switch feePolicy {
	case "":
		feePolicy = DefaultCompanyFeePolicy
	case CompanyFeeOnEveryReward, CompanyFeeOnRegistrationOnly:
	default:
		return nil, fmt.Errorf("unknown company fee policy %q", feePolicy)
	}

	levels := make(map[int]model.LevelDefinition, len(doc.Levels))
	for _, l := range doc.Levels {
		if l.Level < 1 || l.Level > model.MaxLevel {
			return nil, fmt.Errorf("level %d out of range", l.Level)
		}
		if _, ok := levels[l.Level]; ok {
			return nil, fmt.Errorf("level %d defined twice", l.Level)
		}
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			return nil, fmt.Errorf("parse level %d price: %w", l.Level, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("level %d price must be positive", l.Level)
		}
		if l.MinDirectReferrals < 0 || l.MinAncestorDepth < 0 {
			return nil, fmt.Errorf("level %d requirements must not be negative", l.Level)
		}
		levels[l.Level] = model.LevelDefinition{
			LevelNumber:        l.Level,
			Price:              price,
			MinDirectReferrals: l.MinDirectReferrals,
			MinAncestorDepth:   l.MinAncestorDepth,
		}
	}
	for n := 1; n <= model.MaxLevel; n++ {
		if _, ok := levels[n]; !ok {
			return nil, fmt.Errorf("level %d missing", n)
		}
	}

	return &Policy{
		levels:            levels,
		serviceFee:        serviceFee,
		companyFeePercent: feePercent,
		companyFee:        feePolicy,
	}, nil
}

// Levels returns the level table ordered by level number.
func (p *Policy) Levels() []model.LevelDefinition {
	out := make([]model.LevelDefinition, 0, len(p.levels))
	for n := 1; n <= model.MaxLevel; n++ {
		out = append(out, p.levels[n])
	}
	return out
}

// Level looks up a single level definition.
func (p *Policy) Level(n int) (model.LevelDefinition, bool) {
	def, ok := p.levels[n]
	return def, ok
}

func (p *Policy) ServiceFee() decimal.Decimal {
	return p.serviceFee
}

func (p *Policy) CompanyFeePolicy() CompanyFeePolicy {
	return p.companyFee
}

// RegistrationAmount is the total a new member pays: the level-1 price plus the service fee.
func (p *Policy) RegistrationAmount(levelOne model.LevelDefinition) decimal.Decimal {
	return levelOne.Price.Add(p.serviceFee)
}

// Split is the division of a single payment between its recipient and the company.
type Split struct {
	Recipient decimal.Decimal
	Company   decimal.Decimal
	// CompanyEntry reports whether the company share is recorded as its own REWARD entry.
	CompanyEntry bool
}

// RegistrationSplit pays the level-1 price to the direct referrer and the service fee to the company.
func (p *Policy) RegistrationSplit(levelOne model.LevelDefinition) Split {
	return Split{
		Recipient:    levelOne.Price,
		Company:      p.serviceFee,
		CompanyEntry: true,
	}
}

// UpgradeSplit withholds the company fee percentage from the level price.
func (p *Policy) UpgradeSplit(level model.LevelDefinition) Split {
	fee := level.Price.Mul(p.companyFeePercent).Div(hundred).Round(2)
	return Split{
		Recipient:    level.Price.Sub(fee),
		Company:      fee,
		CompanyEntry: p.companyFee == CompanyFeeOnEveryReward,
	}
}

// WithCompanyFeePolicy returns a copy of the policy using the given fee policy.
func (p *Policy) WithCompanyFeePolicy(fp CompanyFeePolicy) *Policy {
	cp := *p
	cp.companyFee = fp
	return &cp
}
