package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/holiman/uint256"

	"typedhash/internal/common"
	"typedhash/internal/eip712"
	"typedhash/internal/hash"
)

func (s *APIServer) RegisterRoutes() http.Handler {
	router := gin.New()

	// Register routes
	router.GET("/", s.DefaultHandler) // test handler

	router.POST("/hash/v1.0/typed-data", s.HashTypedData)
	router.POST("/hash/v1.0/struct", s.HashStruct)
	router.GET("/hash/v1.0/domain-separator", s.GetDomainSeparator)

	// Wrap the router with CORS middleware
	return s.corsMiddleware(router)
}

func (s *APIServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*") // Replace "*" with specific origins if needed
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Credentials", "false") // Set to "true" if credentials are required

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Proceed with the next handler
		next.ServeHTTP(w, r)
	})
}

var decoder = schema.NewDecoder()

func (s *APIServer) DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HashTypedData computes the final signing hash for a full typed-data
// envelope.
func (s *APIServer) HashTypedData(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	typedData, err := eip712.ParseTypedData(body)
	if err != nil {
		s.logger.Printf("rejected typed data envelope: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestID := uuid.New()
	rendered, cached, err := s.manager.HashTypedData(requestID, typedData)
	if err != nil {
		s.logger.Printf("failed to hash typed data %s: %v", requestID, err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, common.HashResponse{
		RequestID: requestID,
		Hash:      rendered,
		Cached:    cached,
	})
}

// HashStruct computes the struct hash of a single record instance.
func (s *APIServer) HashStruct(c *gin.Context) {
	var req common.StructHashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	typedData := &eip712.TypedData{
		Types:       req.Types,
		PrimaryType: req.PrimaryType,
		Message:     req.Message,
	}

	requestID := uuid.New()
	rendered, cached, err := s.manager.HashStruct(requestID, typedData)
	if err != nil {
		s.logger.Printf("failed to hash struct %s: %v", requestID, err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, common.HashResponse{
		RequestID: requestID,
		Hash:      rendered,
		Cached:    cached,
	})
}

// GetDomainSeparator computes the domain separator from query parameters.
func (s *APIServer) GetDomainSeparator(c *gin.Context) {
	var params common.DomainSeparatorParams
	if err := decoder.Decode(&params, c.Request.URL.Query()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if params.Salt != "" {
		if _, err := hash.HexToBytes32Strict(params.Salt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salt: " + err.Error()})
			return
		}
	}

	if params.ChainID < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chainId: must not be negative"})
		return
	}

	chainID := uint256.NewInt(uint64(params.ChainID))
	typedData := &eip712.TypedData{
		Types: eip712.Types{},
		Domain: eip712.TypedDataDomain{
			Name:              params.Name,
			Version:           params.Version,
			ChainId:           (*math.HexOrDecimal256)(chainID.ToBig()),
			VerifyingContract: params.VerifyingContract,
			Salt:              params.Salt,
		},
	}

	requestID := uuid.New()
	rendered, cached, err := s.manager.DomainSeparator(requestID, typedData)
	if err != nil {
		s.logger.Printf("failed to hash domain %s: %v", requestID, err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, common.HashResponse{
		RequestID: requestID,
		Hash:      rendered,
		Cached:    cached,
	})
}

// statusFor maps pipeline errors to HTTP statuses: every error kind means
// malformed input, except the safety bound which is a payload-size refusal.
func statusFor(err error) int {
	if errors.Is(err, eip712.ErrStructureTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
