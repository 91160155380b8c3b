// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package fake serves an in-memory stand-in for the remote commerce API over
// httptest. It implements the endpoints the importer uses and records calls so
// tests can assert on them.
package fake

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	v1 "github.com/sphereio/customer-import/api/v1"
)

const (
	DefaultProjectKey = "customer-import-test"

	defaultPageLimit = 20
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

type ServerOption func(*Server)

// WithProjectKey changes the project key the API is served under.
func WithProjectKey(key string) ServerOption {
	return func(s *Server) {
		s.projectKey = key
	}
}

// WithRequiredToken makes every project endpoint demand the bearer token and
// enables the /oauth/token endpoint handing it out.
func WithRequiredToken(token string) ServerOption {
	return func(s *Server) {
		s.token = token
	}
}

// Server is a fake remote API. The zero value is not usable; use NewServer.
type Server struct {
	*httptest.Server

	projectKey string
	token      string
	limiter    *clientLimiter

	mu             sync.Mutex
	customers      []v1.Customer
	groups         []v1.CustomerGroup
	types          []v1.Type
	groupCreates   map[string]int
	groupPageCalls int
	customerSaves  int
	tokenRequests  int
	rateLimited    int
	failingGroups  map[string]int
	failingEmails  map[string]int
	receivedDrafts []v1.CustomerDraft
}

// NewServer starts a fake API. Callers must Close it.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		projectKey:    DefaultProjectKey,
		groupCreates:  make(map[string]int),
		failingGroups: make(map[string]int),
		failingEmails: make(map[string]int),
	}

	for _, opt := range opts {
		opt(s)
	}

	router := mux.NewRouter()
	router.Use(recoverPanics, logRequests)
	router.HandleFunc("/oauth/token", s.handleToken).Methods(http.MethodPost)

	project := router.PathPrefix("/" + s.projectKey).Subrouter()
	project.Use(s.authenticate, s.limitRequests)
	project.HandleFunc("/customers", s.handleCreateCustomer).Methods(http.MethodPost)
	project.HandleFunc("/customers", s.handleQueryCustomers).Methods(http.MethodGet)
	project.HandleFunc("/customer-groups", s.handleCreateCustomerGroup).Methods(http.MethodPost)
	project.HandleFunc("/customer-groups", s.handleQueryCustomerGroups).Methods(http.MethodGet)
	project.HandleFunc("/types", s.handleCreateType).Methods(http.MethodPost)

	s.Server = httptest.NewServer(router)

	return s
}

// ProjectKey returns the key the API is served under.
func (s *Server) ProjectKey() string {
	return s.projectKey
}

// AddCustomerGroup stores a customer group without counting it as a create call.
func (s *Server) AddCustomerGroup(name string) v1.CustomerGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := v1.CustomerGroup{ID: uuid.NewString(), Version: 1, Name: name}
	s.groups = append(s.groups, group)

	return group
}

// FailCustomerGroup makes creates of the named group fail with status.
func (s *Server) FailCustomerGroup(name string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failingGroups[name] = status
}

// FailCustomer makes creates of customers with email fail with status.
func (s *Server) FailCustomer(email string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failingEmails[email] = status
}

// CustomerGroupCreates returns how many create calls were made for name.
func (s *Server) CustomerGroupCreates(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.groupCreates[name]
}

// TotalCustomerGroupCreates returns the number of create calls for all groups.
func (s *Server) TotalCustomerGroupCreates() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.groupCreates {
		total += n
	}

	return total
}

// CustomerGroupPageCalls returns how many customer group pages were requested.
func (s *Server) CustomerGroupPageCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.groupPageCalls
}

// CustomerSaves returns how many customer create calls were received.
func (s *Server) CustomerSaves() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.customerSaves
}

// TokenRequests returns how many access tokens were handed out.
func (s *Server) TokenRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tokenRequests
}

// Customers returns a copy of all stored customers in creation order.
func (s *Server) Customers() []v1.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]v1.Customer(nil), s.customers...)
}

// CustomerGroups returns a copy of all stored customer groups.
func (s *Server) CustomerGroups() []v1.CustomerGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]v1.CustomerGroup(nil), s.groups...)
}

// ReceivedDrafts returns every customer draft posted, accepted or not.
func (s *Server) ReceivedDrafts() []v1.CustomerDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]v1.CustomerDraft(nil), s.receivedDrafts...)
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid bearer token")

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.token == "" {
		writeError(w, http.StatusNotFound, "ResourceNotFound", "token endpoint disabled")

		return
	}

	if _, _, ok := r.BasicAuth(); !ok {
		writeError(w, http.StatusUnauthorized, "invalid_client", "client credentials required")

		return
	}

	s.mu.Lock()
	s.tokenRequests++
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": s.token,
		"token_type":   "Bearer",
		"expires_in":   172800, //nolint:mnd
		"scope":        "manage_project:" + s.projectKey,
	})
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var draft v1.CustomerDraft
	if err := jsonCodec.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidJsonInput", err.Error())

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.customerSaves++
	s.receivedDrafts = append(s.receivedDrafts, draft)

	if draft.Email == "" {
		writeError(w, http.StatusBadRequest, "InvalidOperation", "email is required")

		return
	}

	if status, ok := s.failingEmails[draft.Email]; ok {
		writeError(w, status, "General", "injected failure for "+draft.Email)

		return
	}

	for _, existing := range s.customers {
		if strings.EqualFold(existing.Email, draft.Email) {
			writeJSON(w, http.StatusBadRequest, v1.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "There is already an existing customer with the email '" + draft.Email + "'.",
				Errors: []v1.ErrorObject{{
					Code:    "DuplicateField",
					Message: "There is already an existing customer with the email '" + draft.Email + "'.",
					Field:   "email",
				}},
			})

			return
		}
	}

	if draft.CustomerGroup != nil && !s.hasGroupLocked(draft.CustomerGroup.ID) {
		writeError(w, http.StatusBadRequest, "ReferencedResourceNotFound",
			"customer group '"+draft.CustomerGroup.ID+"' does not exist")

		return
	}

	customer := v1.Customer{
		ID:              uuid.NewString(),
		Version:         1,
		Email:           draft.Email,
		CustomerNumber:  draft.CustomerNumber,
		ExternalID:      draft.ExternalID,
		FirstName:       draft.FirstName,
		LastName:        draft.LastName,
		MiddleName:      draft.MiddleName,
		Title:           draft.Title,
		CompanyName:     draft.CompanyName,
		VatID:           draft.VatID,
		DateOfBirth:     draft.DateOfBirth,
		IsEmailVerified: draft.IsEmailVerified,
		Addresses:       make([]v1.Address, 0, len(draft.Addresses)),
		CustomerGroup:   draft.CustomerGroup,
		Custom:          draft.Custom,
	}

	for _, address := range draft.Addresses {
		address.ID = uuid.NewString()[:8]
		customer.Addresses = append(customer.Addresses, address)
	}

	if id, ok := addressID(customer.Addresses, draft.DefaultShippingAddress); ok {
		customer.DefaultShippingAddressID = id
	}

	if id, ok := addressID(customer.Addresses, draft.DefaultBillingAddress); ok {
		customer.DefaultBillingAddressID = id
	}

	s.customers = append(s.customers, customer)

	writeJSON(w, http.StatusCreated, v1.CustomerSignInResult{Customer: customer})
}

func (s *Server) handleQueryCustomers(w http.ResponseWriter, r *http.Request) {
	email := ""

	if where := r.URL.Query().Get("where"); where != "" {
		value, ok := strings.CutPrefix(where, "email=")
		if !ok {
			writeError(w, http.StatusBadRequest, "InvalidInput", "unsupported predicate: "+where)

			return
		}

		unquoted, err := strconv.Unquote(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidInput", "malformed predicate: "+where)

			return
		}

		email = unquoted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]v1.Customer, 0)

	for _, customer := range s.customers {
		if email == "" || strings.EqualFold(customer.Email, email) {
			results = append(results, customer)
		}
	}

	writeJSON(w, http.StatusOK, v1.PagedQueryResponse[v1.Customer]{
		Limit:   len(results),
		Count:   len(results),
		Total:   len(results),
		Results: results,
	})
}

func (s *Server) handleCreateCustomerGroup(w http.ResponseWriter, r *http.Request) {
	var draft v1.CustomerGroupDraft
	if err := jsonCodec.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidJsonInput", err.Error())

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groupCreates[draft.GroupName]++

	if status, ok := s.failingGroups[draft.GroupName]; ok {
		writeError(w, status, "General", "injected failure for group "+draft.GroupName)

		return
	}

	group := v1.CustomerGroup{ID: uuid.NewString(), Version: 1, Name: draft.GroupName, Key: draft.Key}
	s.groups = append(s.groups, group)

	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleQueryCustomerGroups(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageLimit)
	offset := queryInt(r, "offset", 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groupPageCalls++

	results := make([]v1.CustomerGroup, 0, limit)

	for i := offset; i < len(s.groups) && len(results) < limit; i++ {
		results = append(results, s.groups[i])
	}

	writeJSON(w, http.StatusOK, v1.PagedQueryResponse[v1.CustomerGroup]{
		Limit:   limit,
		Offset:  offset,
		Count:   len(results),
		Total:   len(s.groups),
		Results: results,
	})
}

func (s *Server) handleCreateType(w http.ResponseWriter, r *http.Request) {
	var draft v1.TypeDraft
	if err := jsonCodec.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidJsonInput", err.Error())

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.types {
		if existing.Key == draft.Key {
			writeJSON(w, http.StatusBadRequest, v1.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "A duplicate value '\"" + draft.Key + "\"' exists for field 'key'.",
				Errors:     []v1.ErrorObject{{Code: "DuplicateField", Field: "key"}},
			})

			return
		}
	}

	created := v1.Type{
		ID:               uuid.NewString(),
		Version:          1,
		Key:              draft.Key,
		Name:             draft.Name,
		ResourceTypeIDs:  draft.ResourceTypeIDs,
		FieldDefinitions: draft.FieldDefinitions,
	}
	s.types = append(s.types, created)

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) hasGroupLocked(id string) bool {
	for _, group := range s.groups {
		if group.ID == id {
			return true
		}
	}

	return false
}

func addressID(addresses []v1.Address, index *int) (string, bool) {
	if index == nil || *index < 0 || *index >= len(addresses) {
		return "", false
	}

	return addresses[*index].ID, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || value < 0 {
		return fallback
	}

	return value
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, v1.ErrorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     []v1.ErrorObject{{Code: code, Message: message}},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = jsonCodec.NewEncoder(w).Encode(body)
}
