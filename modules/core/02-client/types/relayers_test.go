package types_test

import (
	"context"
	"fmt"

	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
)

func (suite *TypesTestSuite) TestValidateRelayers() {
	suite.Require().NoError(types.ValidateRelayers(nil))
	suite.Require().NoError(types.ValidateRelayers([]string{"relayer-0", "relayer-1"}))
	suite.Require().ErrorIs(types.ValidateRelayers([]string{"relayer-0", " "}), types.ErrInvalidClient)

	tooMany := make([]string, types.MaxAllowedRelayersLength+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("relayer-%d", i)
	}
	suite.Require().ErrorIs(types.ValidateRelayers(tooMany), types.ErrInvalidClient)
}

func (suite *TypesTestSuite) TestAuthorizeRelayer() {
	allowed := []string{"relayer-0", "relayer-1"}

	testCases := []struct {
		name    string
		ctx     context.Context
		allowed []string
		expErr  error
	}{
		{"permissionless without signer", context.Background(), nil, nil},
		{"permissionless with signer", types.WithSigner(context.Background(), "anyone"), nil, nil},
		{"allowed signer", types.WithSigner(context.Background(), "relayer-1"), allowed, nil},
		{"signer not allowed", types.WithSigner(context.Background(), "relayer-2"), allowed, ibcerrors.ErrUnauthorized},
		{"no signer", context.Background(), allowed, ibcerrors.ErrUnauthorized},
		{"empty signer", types.WithSigner(context.Background(), ""), allowed, ibcerrors.ErrUnauthorized},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := types.AuthorizeRelayer(tc.ctx, tc.allowed)
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
