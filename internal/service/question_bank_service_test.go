package service

import (
	"errors"
	"testing"

	"adultna_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapQuestionErr(t *testing.T) {
	assert.ErrorIs(t, mapQuestionErr(gorm.ErrRecordNotFound), util.ErrQuestionNotFound)

	other := errors.New("connection refused")
	assert.Equal(t, other, mapQuestionErr(other))
}
