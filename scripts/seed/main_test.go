package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerhub/customerhub/internal/customers"
)

func TestDemoCustomersPassValidation(t *testing.T) {
	reqs := demoCustomers()
	require.NotEmpty(t, reqs)
	for _, req := range reqs {
		assert.Empty(t, customers.ValidateStruct(req), req.Name)
		assert.False(t, customers.InvalidSex(req.Details.Sex), req.Name)
		assert.False(t, customers.InvalidContractType(req.ContractType), req.Name)
	}
}

func TestGetenvFallback(t *testing.T) {
	t.Setenv("SEED_TEST_VALUE", "")
	assert.Equal(t, "fallback", getenv("SEED_TEST_VALUE", "fallback"))
	t.Setenv("SEED_TEST_VALUE", "set")
	assert.Equal(t, "set", getenv("SEED_TEST_VALUE", "fallback"))
}
