package resource

import (
	"testing"

	"rental-booking/constants"

	"github.com/stretchr/testify/assert"
)

func TestForPermissions(t *testing.T) {
	accountant := ForPermissions(map[string]bool{constants.PermAccountantFull: true})
	names := make([]string, 0, len(accountant))
	for _, m := range accountant {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Room board", "Payments", "Exchange rates", "Reports"}, names)

	assert.Len(t, ForPermissions(map[string]bool{constants.PermAdminFull: true}), len(Modules))
	assert.Empty(t, ForPermissions(map[string]bool{}))
}
