package settings

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	Merchants []model.MerchantSettings `yaml:"merchants"`
}

// FileProvider serves settings loaded from a YAML document. Replacements are kept in
// memory only; the file is never written.
type FileProvider struct {
	mu        sync.RWMutex
	merchants map[string]model.MerchantSettings
	now       func() time.Time
}

func LoadFile(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	p, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseYAML reads a document of the form `merchants: [{merchant_id: ..., schedule: ...}]`.
func ParseYAML(data []byte) (*FileProvider, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	p := NewMemoryProvider()
	for i, m := range doc.Merchants {
		id := strings.TrimSpace(m.MerchantID)
		if id == "" {
			return nil, fmt.Errorf("merchants[%d]: merchant_id is required", i)
		}
		if _, dup := p.merchants[id]; dup {
			return nil, fmt.Errorf("merchants[%d]: duplicate merchant_id %q", i, id)
		}
		m.MerchantID = id
		m.Version = 1
		p.merchants[id] = m
	}
	return p, nil
}

func NewMemoryProvider() *FileProvider {
	return &FileProvider{merchants: map[string]model.MerchantSettings{}, now: time.Now}
}

func (p *FileProvider) Get(_ context.Context, merchantID string) (model.MerchantSettings, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.merchants[strings.TrimSpace(merchantID)]
	if !ok {
		return model.MerchantSettings{}, ErrNotFound
	}
	return s, nil
}

func (p *FileProvider) Replace(_ context.Context, s model.MerchantSettings) (model.MerchantSettings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.Version = p.merchants[s.MerchantID].Version + 1
	s.UpdatedAt = p.now().UTC()
	p.merchants[s.MerchantID] = s
	return s, nil
}

func (p *FileProvider) MerchantIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.merchants))
	for id := range p.merchants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
