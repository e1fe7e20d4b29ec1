package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leafprotocol/leafgate/types"
)

func validRequest() *types.ChatRequest {
	return &types.ChatRequest{
		LeafID:      1,
		Message:     "hello",
		TxHash:      "0x1111111111111111111111111111111111111111111111111111111111111111",
		UserAddress: "0xAaaa0000000000000000000000000000000000A1",
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	assert.NoError(t, Validate(validRequest()))
}

func TestValidateRejectsMissingFields(t *testing.T) {
	req := validRequest()
	req.Message = ""
	assert.Error(t, Validate(req))

	req = validRequest()
	req.LeafID = 0
	assert.Error(t, Validate(req))

	req = validRequest()
	req.TxHash = ""
	assert.Error(t, Validate(req))
}

func TestValidateRejectsMalformedTxHash(t *testing.T) {
	for _, h := range []string{
		"1111111111111111111111111111111111111111111111111111111111111111",   // no 0x
		"0x1111",                                                              // too short
		"0xzz11111111111111111111111111111111111111111111111111111111111111", // not hex
	} {
		req := validRequest()
		req.TxHash = h
		assert.Error(t, Validate(req), h)
	}
}

func TestValidateRejectsMalformedAddress(t *testing.T) {
	req := validRequest()
	req.UserAddress = "0x1234"
	assert.Error(t, Validate(req))
}
