package exitcodes

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetInnerErrorAndExitCode(t *testing.T) {
	err, code := GetInnerErrorAndExitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, ExitCodeSuccess, code)

	generic := errors.New("boom")
	err, code = GetInnerErrorAndExitCode(generic)
	assert.Same(t, generic, err)
	assert.Equal(t, ExitCodeGeneralError, code)

	err, code = GetInnerErrorAndExitCode(NewErrorWithExitCode(generic, ExitCodeCompilationFailed))
	assert.Same(t, generic, err)
	assert.Equal(t, ExitCodeCompilationFailed, code)
	assert.Equal(t, "boom", NewErrorWithExitCode(generic, ExitCodeHandledError).Error())
	assert.Equal(t, "", NewErrorWithExitCode(nil, ExitCodeHandledError).Error())
}
