// Package utils hosts the shared request validator with the custom rules
// the gateway needs on top of the built-in tag set.
package utils

import (
	"encoding/hex"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("tx_hash", validateTxHash)
}

// Validate runs struct-tag validation against s.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// validateTxHash accepts a 0x-prefixed 32-byte hex transaction hash.
func validateTxHash(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if !strings.HasPrefix(v, "0x") || len(v) != 66 {
		return false
	}
	_, err := hex.DecodeString(v[2:])
	return err == nil
}
