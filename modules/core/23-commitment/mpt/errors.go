package mpt

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// SubModuleName is the error codespace
const SubModuleName string = "mpt"

var (
	ErrInvalidProof  = sdkerrors.Register(SubModuleName, 2, "invalid merkle patricia trie proof")
	ErrValueMismatch = sdkerrors.Register(SubModuleName, 3, "proven value does not match expected value")
	ErrKeyNotFound   = sdkerrors.Register(SubModuleName, 4, "key not found in trie")
	ErrInvalidPath   = sdkerrors.Register(SubModuleName, 5, "invalid commitment path")
)
