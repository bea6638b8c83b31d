package leave_test

import (
	"os"
	"testing"

	"leavedesk/internal/shared/apperror"
)

func TestMain(m *testing.M) {
	apperror.Init()
	os.Exit(m.Run())
}
