package manager

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/imkira/go-ttlmap"
	_ "github.com/joho/godotenv/autoload"

	"typedhash/internal/common"
	"typedhash/internal/eip712"
	"typedhash/internal/hash"
)

// Manager wraps the pure hashing pipeline with a read-through TTL cache and
// broadcasts every computed result. Caching is sound because the pipeline is
// referentially transparent: entries are keyed by a digest of the full
// request, so identical inputs always map to identical outputs.
type Manager struct {
	hashes      *ttlmap.Map
	domains     *ttlmap.Map
	broadcaster *common.Broadcaster
	logger      *log.Logger
	ttl         time.Duration
	maxDepth    int
}

func NewManager(logger *log.Logger) *Manager {
	ttl := DefaultHashTTL
	if seconds, err := strconv.Atoi(os.Getenv("HASH_TTL_SECONDS")); err == nil && seconds > 0 {
		ttl = time.Second * time.Duration(seconds)
	}
	maxDepth, _ := strconv.Atoi(os.Getenv("MAX_DEPTH"))

	options := &ttlmap.Options{
		InitialCapacity: initialCacheCapacity,
		OnWillExpire: func(key string, item ttlmap.Item) {
			logger.Printf("cache entry expired: %s", key)
		},
	}

	return &Manager{
		hashes:      ttlmap.New(options),
		domains:     ttlmap.New(options),
		broadcaster: common.NewBroadcaster(),
		logger:      logger,
		ttl:         ttl,
		maxDepth:    maxDepth,
	}
}

func (m *Manager) Broadcaster() *common.Broadcaster {
	return m.broadcaster
}

// cacheKey digests the canonical JSON form of the request. encoding/json
// writes map keys in sorted order, so logically identical requests collide
// on the same key regardless of declaration order.
func cacheKey(prefix string, payload interface{}) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to build cache key: %w", err)
	}
	return prefix + ":" + hash.Render(crypto.Keccak256(encoded)), nil
}

// HashTypedData computes (or recalls) the final signing hash for a full
// envelope and broadcasts the result.
func (m *Manager) HashTypedData(requestID uuid.UUID, td *eip712.TypedData) (string, bool, error) {
	td.MaxDepth = m.maxDepth

	key, err := cacheKey("typed-data", td)
	if err != nil {
		return "", false, err
	}
	if item, err := m.hashes.Get(key); err == nil {
		rendered := item.Value().(string)
		m.publish(requestID, td.PrimaryType, rendered, true)
		return rendered, true, nil
	}

	digest, err := eip712.HashStructuredData(td)
	if err != nil {
		return "", false, err
	}
	rendered := hash.Render(digest.Bytes())

	if err := m.hashes.Set(key, ttlmap.NewItem(rendered, ttlmap.WithTTL(m.ttl)), nil); err != nil {
		m.logger.Printf("failed to cache hash: %v", err)
	}
	m.publish(requestID, td.PrimaryType, rendered, false)
	return rendered, false, nil
}

// HashStruct computes (or recalls) the struct hash of a single record
// instance, without the domain separator composition.
func (m *Manager) HashStruct(requestID uuid.UUID, td *eip712.TypedData) (string, bool, error) {
	td.MaxDepth = m.maxDepth

	key, err := cacheKey("struct", td)
	if err != nil {
		return "", false, err
	}
	if item, err := m.hashes.Get(key); err == nil {
		rendered := item.Value().(string)
		m.publish(requestID, td.PrimaryType, rendered, true)
		return rendered, true, nil
	}

	digest, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return "", false, err
	}
	rendered := hash.Render(digest)

	if err := m.hashes.Set(key, ttlmap.NewItem(rendered, ttlmap.WithTTL(m.ttl)), nil); err != nil {
		m.logger.Printf("failed to cache struct hash: %v", err)
	}
	m.publish(requestID, td.PrimaryType, rendered, false)
	return rendered, false, nil
}

// DomainSeparator computes (or recalls) the domain separator for a signing
// context.
func (m *Manager) DomainSeparator(requestID uuid.UUID, td *eip712.TypedData) (string, bool, error) {
	td.MaxDepth = m.maxDepth

	// The separator depends on the domain and on any explicit EIP712Domain
	// declaration, not on the rest of the envelope.
	key, err := cacheKey("domain", struct {
		Domain eip712.TypedDataDomain `json:"domain"`
		Fields []eip712.Type          `json:"fields"`
	}{td.Domain, td.Types["EIP712Domain"]})
	if err != nil {
		return "", false, err
	}
	if item, err := m.domains.Get(key); err == nil {
		rendered := item.Value().(string)
		m.publish(requestID, "EIP712Domain", rendered, true)
		return rendered, true, nil
	}

	digest, err := td.HashDomain()
	if err != nil {
		return "", false, err
	}
	rendered := hash.Render(digest)

	if err := m.domains.Set(key, ttlmap.NewItem(rendered, ttlmap.WithTTL(m.ttl)), nil); err != nil {
		m.logger.Printf("failed to cache domain separator: %v", err)
	}
	m.publish(requestID, "EIP712Domain", rendered, false)
	return rendered, false, nil
}

func (m *Manager) publish(requestID uuid.UUID, primaryType, rendered string, cached bool) {
	event := common.HashEvent{
		RequestID:   requestID,
		PrimaryType: primaryType,
		Hash:        rendered,
		Cached:      cached,
		Timestamp:   time.Now().UTC(),
	}
	if err := m.broadcaster.Broadcast(event); err != nil {
		m.logger.Printf("failed to broadcast hash event: %v", err)
	}
}

func (m *Manager) Close() {
	m.broadcaster.Close()
}
