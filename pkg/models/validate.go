package models

import "github.com/go-playground/validator/v10"

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New()

// Validate checks the struct tags on stored entities. Request types are
// validated by gin's binding layer; this covers writes that do not come
// through HTTP, like batch imports and seed data.
func (c Course) Validate() error { return validate.Struct(c) }

func (u User) Validate() error { return validate.Struct(u) }
