package services_test

import (
	"context"
	"regexp"
	"testing"

	"marketplace-service/services"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	taken  map[string]bool
	probes []string
}

func (c *fakeChecker) OrderNumberExists(_ context.Context, orderNumber string) (bool, error) {
	c.probes = append(c.probes, orderNumber)
	return c.taken[orderNumber], nil
}

// takesFirstN marks the first n probed candidates as taken.
type takesFirstN struct {
	n      int
	probes int
}

func (c *takesFirstN) OrderNumberExists(_ context.Context, _ string) (bool, error) {
	c.probes++
	return c.probes <= c.n, nil
}

func TestGenerate_Format(t *testing.T) {
	gen := services.NewOrderNumberGenerator()
	number, svcErr := gen.Generate(context.Background(), &fakeChecker{})
	assert.Nil(t, svcErr)
	assert.Regexp(t, regexp.MustCompile(`^SOL-\d{8}-\d{4}$`), number)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	gen := services.NewOrderNumberGenerator()
	checker := &takesFirstN{n: 3}

	number, svcErr := gen.Generate(context.Background(), checker)
	assert.Nil(t, svcErr)
	assert.NotEmpty(t, number)
	assert.Equal(t, 4, checker.probes)
}

func TestGenerate_Exhausted(t *testing.T) {
	gen := services.NewOrderNumberGenerator()
	checker := &takesFirstN{n: 1 << 30}

	number, svcErr := gen.Generate(context.Background(), checker)
	assert.Empty(t, number)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindGenerationExhausted, svcErr.Kind)
	assert.Equal(t, 999, checker.probes)
}
