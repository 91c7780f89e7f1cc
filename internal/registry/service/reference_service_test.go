package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	referencestore "crudlandia/internal/registry/store/reference"
	dErrors "crudlandia/pkg/domain-errors"
)

type ReferenceServiceSuite struct {
	suite.Suite
	service *ReferenceService
	ctx     context.Context
}

func TestReferenceServiceSuite(t *testing.T) {
	suite.Run(t, new(ReferenceServiceSuite))
}

func (s *ReferenceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.service = NewReferenceService(referencestore.NewInMemory())
}

func (s *ReferenceServiceSuite) TestCreateAndGetRoundTrip() {
	created, err := s.service.Create(s.ctx, "REF-1", "first reference")
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, created.ID)
	s.Equal(int64(1), created.Version)

	loaded, err := s.service.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("REF-1", loaded.Code)
	s.Equal("first reference", loaded.Name)
}

func (s *ReferenceServiceSuite) TestCreateRejectsOversizeCode() {
	_, err := s.service.Create(s.ctx, "CODE-TOO-LONG", "reference")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ReferenceServiceSuite) TestGetByIDUnknownIsNotFound() {
	_, err := s.service.GetByID(s.ctx, uuid.New())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
