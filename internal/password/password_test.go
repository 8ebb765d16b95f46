package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/course-manager/internal/password"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	hasher := password.NewBcrypt(bcrypt.MinCost)

	hash, err := hasher.Hash("qwerty123")
	require.NoError(t, err)
	require.NotEqual(t, "qwerty123", hash, "Password should be hashed, not raw")

	require.NoError(t, hasher.Compare(hash, "qwerty123"))
	require.ErrorIs(t, hasher.Compare(hash, "qwerty124"), password.ErrMismatch)
}

func TestBcrypt_EmptyPassword(t *testing.T) {
	hasher := password.NewBcrypt(bcrypt.MinCost)

	hash, err := hasher.Hash("")
	require.Error(t, err)
	require.Empty(t, hash)
}

func TestNewBcrypt_InvalidCostFallsBackToDefault(t *testing.T) {
	hasher := password.NewBcrypt(1)

	hash, err := hasher.Hash("mango123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}
