// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package client contains end-to-end tests for the remote API client.
//
// The client limits itself: MaxConcurrency bounds the requests in flight and
// RateLimit/RateBurst bound the request rate. The tests run against the
// in-memory fake of the remote API and measure how the client paces a batch.
package client

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	v1 "github.com/sphereio/customer-import/api/v1"
	"github.com/sphereio/customer-import/client"
	"github.com/sphereio/customer-import/client/fake"
	"github.com/sphereio/customer-import/importer/config"
	"github.com/sphereio/customer-import/importer/customer"
	"github.com/sphereio/customer-import/importer/validator"
)

func newClient(ctx context.Context, server *fake.Server, mutate func(*client.Config)) *client.Client {
	cfg := &client.Config{
		APIURL:     server.URL,
		ProjectKey: server.ProjectKey(),
	}

	mutate(cfg)

	c, err := client.New(ctx, client.WithConfig(cfg))
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	return c
}

var _ = ginkgo.Describe("Rate Limiting E2E Tests", ginkgo.Label("ratelimit"), ginkgo.Serial, func() {
	var (
		server *fake.Server
		ctx    context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		server = fake.NewServer()
	})

	ginkgo.AfterEach(func() {
		server.Close()
	})

	ginkgo.Context("Rate limiting behavior", func() {
		ginkgo.It("should allow requests within the burst without waiting", func() {
			c := newClient(ctx, server, func(cfg *client.Config) {
				cfg.RateLimit = 1
				cfg.RateBurst = 10
			})
			defer c.Close()

			start := time.Now()

			for i := range 10 {
				_, err := c.CreateCustomerGroup(ctx, v1.CustomerGroupDraft{GroupName: fmt.Sprintf("burst-%d", i)})
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
			}

			gomega.Expect(time.Since(start)).To(gomega.BeNumerically("<", 900*time.Millisecond))
		})

		ginkgo.It("should pace requests exceeding the burst", func() {
			c := newClient(ctx, server, func(cfg *client.Config) {
				cfg.RateLimit = 20
				cfg.RateBurst = 1
			})
			defer c.Close()

			start := time.Now()

			ginkgo.By("Making rapid sequential requests to exceed the rate limit")

			for i := range 11 {
				_, err := c.CreateCustomerGroup(ctx, v1.CustomerGroupDraft{GroupName: fmt.Sprintf("paced-%d", i)})
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
			}

			elapsed := time.Since(start)
			ginkgo.GinkgoWriter.Printf("11 requests at 20 rps took %s\n", elapsed)

			// The first request passes immediately, the other ten wait 50ms each.
			gomega.Expect(elapsed).To(gomega.BeNumerically(">=", 450*time.Millisecond))
			gomega.Expect(server.TotalCustomerGroupCreates()).To(gomega.Equal(11))
		})

		ginkgo.It("should give up waiting when the context ends", func() {
			c := newClient(ctx, server, func(cfg *client.Config) {
				cfg.RateLimit = 0.5
				cfg.RateBurst = 1
			})
			defer c.Close()

			_, err := c.CreateCustomerGroup(ctx, v1.CustomerGroupDraft{GroupName: "first"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()

			_, err = c.CreateCustomerGroup(shortCtx, v1.CustomerGroupDraft{GroupName: "second"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(server.CustomerGroupCreates("second")).To(gomega.Equal(0))
		})
	})

	ginkgo.Context("Remote rate limit", func() {
		ginkgo.It("should be rejected by a rate limited remote without a client limit", func() {
			limited := fake.NewServer(fake.WithRateLimit(1, 5))
			defer limited.Close()

			c := newClient(ctx, limited, func(*client.Config) {})
			defer c.Close()

			var rejected int

			for i := range 10 {
				_, err := c.CreateCustomerGroup(ctx, v1.CustomerGroupDraft{GroupName: fmt.Sprintf("unpaced-%d", i)})
				if err != nil {
					rejected++
				}
			}

			gomega.Expect(rejected).To(gomega.BeNumerically(">", 0))
			gomega.Expect(limited.RateLimited()).To(gomega.Equal(rejected))
		})

		ginkgo.It("should stay within the remote limit when the client paces itself", func() {
			limited := fake.NewServer(fake.WithRateLimit(25, 5))
			defer limited.Close()

			c := newClient(ctx, limited, func(cfg *client.Config) {
				cfg.RateLimit = 20
				cfg.RateBurst = 5
			})
			defer c.Close()

			for i := range 15 {
				_, err := c.CreateCustomerGroup(ctx, v1.CustomerGroupDraft{GroupName: fmt.Sprintf("paced-%d", i)})
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
			}

			gomega.Expect(limited.RateLimited()).To(gomega.Equal(0))
		})
	})

	ginkgo.Context("Batch import under limits", func() {
		ginkgo.It("should import a concurrent batch through a rate limited client", func() {
			c := newClient(ctx, server, func(cfg *client.Config) {
				cfg.MaxConcurrency = 2
				cfg.RateLimit = 200
				cfg.RateBurst = 5
			})
			defer c.Close()

			importer := customer.New(c, config.ImporterConfig{})

			records := make([]validator.Raw, 0, 30)
			for i := range 30 {
				records = append(records, validator.Raw{
					"email":         fmt.Sprintf("customer-%d@example.com", i),
					"customerGroup": fmt.Sprintf("group-%d", i%3),
				})
			}

			var completed atomic.Int32

			err := importer.ProcessBatch(ctx, records, func() { completed.Add(1) })
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(completed.Load()).To(gomega.Equal(int32(1)))

			report := importer.SummaryReport()
			gomega.Expect(report.SuccessfulImports).To(gomega.Equal(30))
			gomega.Expect(report.Errors).To(gomega.BeEmpty())
			gomega.Expect(server.CustomerGroups()).To(gomega.HaveLen(3))
			gomega.Expect(server.TotalCustomerGroupCreates()).To(gomega.Equal(3))
		})
	})
})
