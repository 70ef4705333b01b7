package domain

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

// LengthRule selects how the DNA/protein length relation is checked.
type LengthRule string

const (
	// LengthRuleCodon requires len(dna) == 3 * len(protein): one codon per
	// amino acid.
	LengthRuleCodon LengthRule = "codon"
	// LengthRuleLiteral compares the DNA length against three times itself,
	// which only an empty DNA sequence satisfies. Kept so deployments that
	// depended on the historical behaviour can opt back into it.
	LengthRuleLiteral LengthRule = "literal"
)

func ParseLengthRule(raw string) (LengthRule, error) {
	switch LengthRule(raw) {
	case "", LengthRuleCodon:
		return LengthRuleCodon, nil
	case LengthRuleLiteral:
		return LengthRuleLiteral, nil
	}
	return "", fmt.Errorf("unknown length rule %q (want %q or %q)", raw, LengthRuleCodon, LengthRuleLiteral)
}

// RecordValidator decides whether an entity may be committed. It holds no
// mutable state and is safe for concurrent use.
type RecordValidator struct {
	rule LengthRule
}

func NewRecordValidator(rule LengthRule) *RecordValidator {
	if rule == "" {
		rule = LengthRuleCodon
	}
	return &RecordValidator{rule: rule}
}

func (v *RecordValidator) Rule() LengthRule {
	return v.rule
}

// Validate dispatches on the record type. The returned error is a
// *FieldError for rule violations and ErrUnsupportedRecord otherwise.
func (v *RecordValidator) Validate(record any) error {
	switch r := record.(type) {
	case SequenceRecord:
		return v.ValidateSequence(r)
	case *SequenceRecord:
		return v.ValidateSequence(*r)
	case Comment:
		return v.ValidateComment(r)
	case *Comment:
		return v.ValidateComment(*r)
	case Document:
		return v.ValidateDocument(r)
	case *Document:
		return v.ValidateDocument(*r)
	case Notification:
		return v.ValidateNotification(r)
	case *Notification:
		return v.ValidateNotification(*r)
	case User:
		return r.Validate()
	case *User:
		return r.Validate()
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedRecord, record)
	}
}

func (v *RecordValidator) ValidateSequence(s SequenceRecord) error {
	if s.ProteinSequence == "" {
		return missingField(FieldProteinSequence)
	}
	if s.DNASequence == "" {
		return missingField(FieldDNASequence)
	}
	if s.OwnerID <= 0 {
		return missingField(FieldOwner)
	}

	proteinLen := utf8.RuneCountInString(s.ProteinSequence)
	dnaLen := utf8.RuneCountInString(s.DNASequence)
	if proteinLen > MaxSequenceLength {
		return tooLong(FieldProteinSequence, proteinLen)
	}
	if dnaLen > MaxSequenceLength {
		return tooLong(FieldDNASequence, dnaLen)
	}

	if !v.lengthRelationHolds(proteinLen, dnaLen) {
		return newFieldError(FieldDNASequence, CodeInvalidLength,
			"This field characters should be three times as many as the number of characters of the protein amino acids field.")
	}
	return nil
}

func (v *RecordValidator) lengthRelationHolds(proteinLen, dnaLen int) bool {
	if v.rule == LengthRuleLiteral {
		return dnaLen == dnaLen*3
	}
	return dnaLen == proteinLen*3
}

func (v *RecordValidator) ValidateDocument(d Document) error {
	return validateTextNote(d.TextNote)
}

func (v *RecordValidator) ValidateComment(c Comment) error {
	if err := validateTextNote(c.TextNote); err != nil {
		return err
	}
	if c.Target.Type == "" {
		return missingField(FieldTargetType)
	}
	if !c.Target.Type.Valid() {
		return newFieldError(FieldTargetType, CodeInvalidChoice,
			fmt.Sprintf("Value %q is not a valid choice.", c.Target.Type))
	}
	if c.Target.ID <= 0 {
		return missingField(FieldTargetID)
	}
	return nil
}

func (v *RecordValidator) ValidateNotification(n Notification) error {
	if n.Kind == "" {
		return missingField(FieldNotificationKind)
	}
	if !n.Kind.Valid() {
		return newFieldError(FieldNotificationKind, CodeInvalidChoice,
			fmt.Sprintf("Value %q is not a valid choice.", n.Kind))
	}
	if n.Message == "" {
		return missingField(FieldMessage)
	}
	if n.Kind == NotificationLink && !IsWellFormedURL(n.Message) {
		return newFieldError(FieldMessage, CodeInvalidLink, "Link notifications should contain a link")
	}
	return nil
}

// IsWellFormedURL reports whether raw parses as an absolute URL with both a
// scheme and a host.
func IsWellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func validateTextNote(n TextNote) error {
	if n.Body == "" {
		return missingField(FieldBody)
	}
	if n.OwnerID <= 0 {
		return missingField(FieldOwner)
	}
	return nil
}

func tooLong(field string, got int) *FieldError {
	return newFieldError(field, CodeTooLong,
		fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", MaxSequenceLength, got))
}
