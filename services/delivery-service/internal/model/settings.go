package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/availability"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/quote"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/tariff"
)

// MerchantSettings is a merchant's delivery configuration as stored and exchanged.
type MerchantSettings struct {
	MerchantID  string                   `json:"merchant_id" yaml:"merchant_id"`
	Timezone    string                   `json:"timezone" yaml:"timezone"`
	Schedule    []availability.DayConfig `json:"schedule" yaml:"schedule"`
	Pricing     *tariff.PricingConfig    `json:"pricing,omitempty" yaml:"pricing,omitempty"`
	ServiceArea []string                 `json:"service_area" yaml:"service_area"`
	Version     int64                    `json:"version,omitempty" yaml:"-"`
	UpdatedAt   time.Time                `json:"updated_at,omitempty" yaml:"-"`
}

// Compile builds the engine snapshot. An empty schedule or an unusable pricing block
// leaves the corresponding field nil so the quote fails closed.
func (m MerchantSettings) Compile() quote.Settings {
	var s quote.Settings
	if len(m.Schedule) > 0 {
		schedule := availability.Compile(m.Timezone, m.Schedule)
		s.Schedule = &schedule
	}
	if m.Pricing != nil {
		if p, _, err := m.Pricing.Compile(); err == nil {
			s.Pricing = &p
		}
	}
	s.Area = &tariff.ServiceArea{Cities: append([]string(nil), m.ServiceArea...)}
	return s
}

// Validate returns the problems that keep the settings from being accepted as-is.
func (m MerchantSettings) Validate() []string {
	var problems []string
	if strings.TrimSpace(m.MerchantID) == "" {
		problems = append(problems, "merchant_id is required")
	}
	if len(m.Schedule) == 0 {
		problems = append(problems, "schedule is required")
	}
	_, scheduleProblems := availability.CompileWithReport(m.Timezone, m.Schedule)
	problems = append(problems, scheduleProblems...)

	if m.Pricing == nil {
		problems = append(problems, "pricing is required")
	} else {
		_, pricingProblems, err := m.Pricing.Compile()
		if err != nil {
			problems = append(problems, err.Error())
		}
		problems = append(problems, pricingProblems...)
	}

	for i, city := range m.ServiceArea {
		if tariff.Normalize(city) == "" {
			problems = append(problems, fmt.Sprintf("service_area[%d] is empty", i))
		}
	}
	return problems
}
