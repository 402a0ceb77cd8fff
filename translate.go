package valar

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

///////////////////////////////////////////////////////////////////////////////
// Translation
///////////////////////////////////////////////////////////////////////////////

// Translator turns one validation error into a display string. It is
// invoked once per top-level error of an Invalid result, never recursively
// on children, and only the message may change: field path, children,
// code, severity, expected, and actual always survive translation intact.
type Translator interface {
	Translate(err FieldError) string
}

// TranslatorFunc adapts a plain function to the Translator interface.
type TranslatorFunc func(err FieldError) string

func (f TranslatorFunc) Translate(err FieldError) string { return f(err) }

// TranslateErrors rewrites the messages of an Invalid result's top-level
// errors through tr. A Valid result is returned identically; the input
// result is never modified.
func TranslateErrors[A any](r Result[A], tr Translator) Result[A] {
	if r.IsValid() || tr == nil {
		return r
	}
	errs := r.Errors()
	for i, e := range errs {
		errs[i] = e.WithMessage(tr.Translate(e))
	}
	return Invalid[A](errs...)
}

// CatalogTranslator resolves messages from a golang.org/x/text catalog
// keyed by error code. Errors without a code, or with a code the catalog
// does not carry, keep their original message.
type CatalogTranslator struct {
	printer *message.Printer
}

// NewCatalogTranslator builds a translator for one language from a
// code-to-message mapping. Catalog messages are static per code; a
// translator that needs to interpolate diagnostic values should implement
// Translator directly on top of the error's Expected/Actual fields.
func NewCatalogTranslator(tag language.Tag, messages map[string]string) (*CatalogTranslator, error) {
	builder := catalog.NewBuilder(catalog.Fallback(tag))
	for code, msg := range messages {
		if err := builder.SetString(tag, code, msg); err != nil {
			return nil, err
		}
	}
	return &CatalogTranslator{
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Translate implements Translator.
func (t *CatalogTranslator) Translate(err FieldError) string {
	if err.Code == "" {
		return err.Message
	}
	translated := t.printer.Sprintf(err.Code)
	if translated == err.Code {
		// No catalog entry for this code.
		return err.Message
	}
	return translated
}
