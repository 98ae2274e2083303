package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"bioserver/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the "seqalphabet" and "modulerole" rules on
// gin's validator and reports field errors by their JSON names.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
		if err = v.RegisterValidation("seqalphabet", func(fl validator.FieldLevel) bool {
			return model.ValidSequence(fl.Field().String())
		}); err != nil {
			return
		}
		err = v.RegisterValidation("modulerole", func(fl validator.FieldLevel) bool {
			return model.ModuleRole(fl.Field().String()).Valid()
		})
	})
	return err
}

// bindMessage turns binding errors into `"field" failed on the "rule" rule` lines.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%q failed on the %q rule", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
