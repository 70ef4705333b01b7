package domain

import "time"

// MaxSequenceLength caps both sequence columns.
const MaxSequenceLength = 10000

const (
	FieldProteinSequence = "protein_sequence"
	FieldDNASequence     = "dna_sequence"
	FieldOwner           = "owner_id"
)

type SequenceRecord struct {
	ID              int64
	ProteinSequence string
	DNASequence     string
	OwnerID         int64
	CreatedAt       time.Time
	ModifiedAt      time.Time
}

func (s SequenceRecord) String() string {
	return s.ProteinSequence
}

// SequenceEdit carries the fields an explicit edit may replace.
type SequenceEdit struct {
	ProteinSequence string
	DNASequence     string
}

func (s SequenceRecord) Apply(edit SequenceEdit) SequenceRecord {
	s.ProteinSequence = edit.ProteinSequence
	s.DNASequence = edit.DNASequence
	return s
}
