package postgres_test

import (
	"context"
	"fmt"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/logger"
	"github.com/papercomputeco/newsvec/pkg/vector"
	"github.com/papercomputeco/newsvec/pkg/vector/postgres"
	"github.com/papercomputeco/newsvec/pkg/vector/vectortest"
)

// connStr returns the PostgreSQL connection string from environment or skips the test.
func connStr() string {
	dsn := os.Getenv("NEWSVEC_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("NEWSVEC_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("Driver", func() {
	Describe("Interface compliance", func() {
		It("should implement vector.Driver interface", func() {
			var _ vector.Driver = (*postgres.Driver)(nil)
			var _ vector.Collection = (*postgres.Collection)(nil)
		})
	})

	Describe("vectorLiteral", func() {
		It("renders pgvector text input", func() {
			Expect(postgres.VectorLiteral([]float32{1, 0.5, -2})).To(Equal("[1,0.5,-2]"))
			Expect(postgres.VectorLiteral(nil)).To(Equal("[]"))
		})
	})

	Describe("NewDriver", func() {
		It("returns an error for an empty connection string", func() {
			_, err := postgres.NewDriver(context.Background(), "", logger.Nop())
			Expect(err).To(HaveOccurred())
		})

		It("returns an error for an unreachable database", func() {
			connStr()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_, err := postgres.NewDriver(ctx, "host=invalid port=9999 user=bad dbname=bad sslmode=disable connect_timeout=1", logger.Nop())
			Expect(err).To(HaveOccurred())
			fmt.Fprintf(GinkgoWriter, "expected error: %v\n", err)
		})
	})

	Describe("against PostgreSQL", func() {
		vectortest.DriverBehaviors(func() vector.Driver {
			d, err := postgres.NewDriver(context.Background(), connStr(), logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			return d
		})
	})
})
