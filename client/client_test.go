// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package client_test

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	v1 "github.com/sphereio/customer-import/api/v1"
	"github.com/sphereio/customer-import/client"
	"github.com/sphereio/customer-import/client/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmail = "test@test.de"

func newTestClient(t *testing.T, server *fake.Server, mutate ...func(*client.Config)) *client.Client {
	t.Helper()

	cfg := &client.Config{
		APIURL:     server.URL,
		ProjectKey: server.ProjectKey(),
	}

	for _, fn := range mutate {
		fn(cfg)
	}

	c, err := client.New(t.Context(), client.WithConfig(cfg))
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestNew_WithMissingConfig(t *testing.T) {
	_, err := client.New(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}

func TestNew_WithInvalidConfig(t *testing.T) {
	_, err := client.New(t.Context(), client.WithConfig(&client.Config{APIURL: "http://localhost"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project key is required")
}

func TestSaveCustomer(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	c := newTestClient(t, server)

	index := 0
	customer, err := c.SaveCustomer(t.Context(), &v1.CustomerDraft{
		Email:     testEmail,
		Password:  "secret",
		FirstName: "Max",
		Addresses: []v1.Address{{StreetName: "Musterstraße 123", City: "Stadt", Country: "DE"}},

		DefaultShippingAddress: &index,
		DefaultBillingAddress:  &index,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, customer.ID)
	assert.Equal(t, testEmail, customer.Email)
	assert.Equal(t, "Max", customer.FirstName)
	require.Len(t, customer.Addresses, 1)
	assert.Equal(t, customer.Addresses[0].ID, customer.DefaultShippingAddressID)
	assert.Equal(t, customer.Addresses[0].ID, customer.DefaultBillingAddressID)
}

func TestSaveCustomer_Conflict(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	c := newTestClient(t, server)

	_, err := c.SaveCustomer(t.Context(), &v1.CustomerDraft{Email: testEmail})
	require.NoError(t, err)

	_, err = c.SaveCustomer(t.Context(), &v1.CustomerDraft{Email: testEmail})
	require.Error(t, err)
	assert.True(t, client.IsConflict(err))

	var remoteErr *client.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadRequest, remoteErr.StatusCode)
	assert.Equal(t, client.KindConflict, remoteErr.Kind)
}

func TestSaveCustomer_OtherFailure(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	server.FailCustomer(testEmail, http.StatusInternalServerError)

	c := newTestClient(t, server)

	_, err := c.SaveCustomer(t.Context(), &v1.CustomerDraft{Email: testEmail})
	require.Error(t, err)
	assert.False(t, client.IsConflict(err))

	var remoteErr *client.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
}

func TestSaveCustomer_NilDraft(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	_, err := newTestClient(t, server).SaveCustomer(t.Context(), nil)
	require.Error(t, err)
	assert.Equal(t, 0, server.CustomerSaves())
}

func TestFetchCustomerByEmail(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	c := newTestClient(t, server)

	_, err := c.SaveCustomer(t.Context(), &v1.CustomerDraft{Email: testEmail})
	require.NoError(t, err)

	_, err = c.SaveCustomer(t.Context(), &v1.CustomerDraft{Email: "other@test.de"})
	require.NoError(t, err)

	customers, err := c.FetchCustomerByEmail(t.Context(), testEmail)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, testEmail, customers[0].Email)
}

func TestProcessCustomerGroups_Paginates(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	const total = 1203
	for i := range total {
		server.AddCustomerGroup("group-" + strconv.Itoa(i))
	}

	c := newTestClient(t, server)

	seen := 0
	pages := 0

	err := c.ProcessCustomerGroups(t.Context(), func(page []v1.CustomerGroup) error {
		pages++
		seen += len(page)

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, total, seen)
	assert.Equal(t, 3, pages)
	assert.Equal(t, 3, server.CustomerGroupPageCalls())
}

func TestProcessCustomerGroups_EmptyCollection(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	called := false

	err := newTestClient(t, server).ProcessCustomerGroups(t.Context(), func([]v1.CustomerGroup) error {
		called = true

		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, 1, server.CustomerGroupPageCalls())
}

func TestProcessCustomerGroups_HandlerError(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	server.AddCustomerGroup("commercetools")

	stop := assert.AnError

	err := newTestClient(t, server).ProcessCustomerGroups(t.Context(), func([]v1.CustomerGroup) error {
		return stop
	})
	require.ErrorIs(t, err, stop)
}

func TestCreateCustomerGroup(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	c := newTestClient(t, server)

	group, err := c.CreateCustomerGroup(t.Context(), v1.CustomerGroupDraft{GroupName: "commercetools"})
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "commercetools", group.Name)
	assert.Equal(t, 1, server.CustomerGroupCreates("commercetools"))

	_, err = c.CreateCustomerGroup(t.Context(), v1.CustomerGroupDraft{})
	require.Error(t, err)
}

func TestCreateType(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	c := newTestClient(t, server)

	draft := v1.TypeDraft{
		Key:             "custom-customer",
		Name:            v1.LocalizedString{"en": "custom customer"},
		ResourceTypeIDs: []string{"customer"},
		FieldDefinitions: []v1.FieldDefinition{
			{Name: "customField1", Type: v1.FieldType{Name: "String"}, Label: v1.LocalizedString{"en": "Custom field 1"}},
		},
	}

	created, err := c.CreateType(t.Context(), draft)
	require.NoError(t, err)
	assert.Equal(t, "custom-customer", created.Key)

	_, err = c.CreateType(t.Context(), draft)
	assert.True(t, client.IsConflict(err))
}

func TestClient_OAuth2ClientCredentials(t *testing.T) {
	server := fake.NewServer(fake.WithRequiredToken("token-123"))
	defer server.Close()

	c := newTestClient(t, server, func(cfg *client.Config) {
		cfg.AuthURL = server.URL
		cfg.ClientID = "client-id"
		cfg.ClientSecret = "client-secret"
	})

	_, err := c.CreateCustomerGroup(t.Context(), v1.CustomerGroupDraft{GroupName: "b2b"})
	require.NoError(t, err)

	_, err = c.CreateCustomerGroup(t.Context(), v1.CustomerGroupDraft{GroupName: "b2c"})
	require.NoError(t, err)

	// token is cached across calls
	assert.Equal(t, 1, server.TokenRequests())
}

func TestClient_WithoutCredentialsIsRejected(t *testing.T) {
	server := fake.NewServer(fake.WithRequiredToken("token-123"))
	defer server.Close()

	_, err := newTestClient(t, server).CreateCustomerGroup(t.Context(), v1.CustomerGroupDraft{GroupName: "b2b"})
	require.Error(t, err)

	var remoteErr *client.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.StatusCode)
}

func TestClient_MaxConcurrency(t *testing.T) {
	var (
		inFlight    atomic.Int32
		maxInFlight atomic.Int32
	)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)

		for {
			seen := maxInFlight.Load()
			if current <= seen || maxInFlight.CompareAndSwap(seen, current) {
				break
			}
		}

		time.Sleep(20 * time.Millisecond)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"g","version":1,"name":"g"}`))
	})

	c, err := client.New(t.Context(),
		client.WithConfig(&client.Config{APIURL: "http://api.invalid", ProjectKey: "p", MaxConcurrency: 2}),
		client.WithHTTPClient(&http.Client{Transport: handlerTransport{handler}}),
	)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := c.CreateCustomerGroup(context.Background(), v1.CustomerGroupDraft{GroupName: "g"})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}

func TestClient_ContextCancelled(t *testing.T) {
	server := fake.NewServer()
	defer server.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := newTestClient(t, server).SaveCustomer(ctx, &v1.CustomerDraft{Email: testEmail})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, client.IsConflict(err))
}
