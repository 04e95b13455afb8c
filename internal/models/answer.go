package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

type AnswerKind int

const (
	AnswerAbsent AnswerKind = iota
	AnswerText
	AnswerList
	AnswerNumber
	AnswerFile
)

func (k AnswerKind) String() string {
	switch k {
	case AnswerText:
		return "text"
	case AnswerList:
		return "list"
	case AnswerNumber:
		return "number"
	case AnswerFile:
		return "file"
	default:
		return "absent"
	}
}

// AnswerValue holds one answer: a string, a string sequence, a number or an
// opaque file reference. The zero value is an absent answer.
type AnswerValue struct {
	kind   AnswerKind
	text   string
	list   []string
	number float64
}

func TextAnswer(s string) AnswerValue {
	return AnswerValue{kind: AnswerText, text: s}
}

func ListAnswer(values ...string) AnswerValue {
	return AnswerValue{kind: AnswerList, list: slices.Clone(values)}
}

func NumberAnswer(n float64) AnswerValue {
	return AnswerValue{kind: AnswerNumber, number: n}
}

// FileAnswer wraps a reference produced by whatever stores uploads.
func FileAnswer(ref string) AnswerValue {
	return AnswerValue{kind: AnswerFile, text: ref}
}

func (v AnswerValue) Kind() AnswerKind { return v.kind }

func (v AnswerValue) IsAbsent() bool { return v.kind == AnswerAbsent }

func (v AnswerValue) Text() (string, bool) {
	return v.text, v.kind == AnswerText
}

func (v AnswerValue) List() ([]string, bool) {
	if v.kind != AnswerList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

func (v AnswerValue) Number() (float64, bool) {
	return v.number, v.kind == AnswerNumber
}

func (v AnswerValue) FileRef() (string, bool) {
	return v.text, v.kind == AnswerFile
}

// IsBlank reports whether the answer counts as not given: absent, an empty
// string or an empty sequence.
func (v AnswerValue) IsBlank() bool {
	switch v.kind {
	case AnswerText, AnswerFile:
		return v.text == ""
	case AnswerList:
		return len(v.list) == 0
	case AnswerNumber:
		return false
	default:
		return true
	}
}

// String is the scalar form used by condition comparisons. Sequences join
// with commas.
func (v AnswerValue) String() string {
	switch v.kind {
	case AnswerText, AnswerFile:
		return v.text
	case AnswerNumber:
		return FormatNumber(v.number)
	case AnswerList:
		var b bytes.Buffer
		for i, s := range v.list {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s)
		}
		return b.String()
	default:
		return ""
	}
}

// Contains reports whether a sequence answer includes value.
func (v AnswerValue) Contains(value string) bool {
	return v.kind == AnswerList && slices.Contains(v.list, value)
}

// Toggle adds value to a sequence answer, or removes it when already present,
// the way a checkbox group behaves. Non-sequence answers start a new sequence.
func (v AnswerValue) Toggle(value string) AnswerValue {
	if v.kind != AnswerList {
		return ListAnswer(value)
	}
	if i := slices.Index(v.list, value); i >= 0 {
		return AnswerValue{kind: AnswerList, list: slices.Delete(slices.Clone(v.list), i, i+1)}
	}
	return AnswerValue{kind: AnswerList, list: append(slices.Clone(v.list), value)}
}

type fileRefJSON struct {
	FileRef string `json:"fileRef"`
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case AnswerText:
		return json.Marshal(v.text)
	case AnswerList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case AnswerNumber:
		return json.Marshal(v.number)
	case AnswerFile:
		return json.Marshal(fileRefJSON{FileRef: v.text})
	default:
		return []byte("null"), nil
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = AnswerValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextAnswer(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			s, err := scalarString(item)
			if err != nil {
				return fmt.Errorf("answer list item: %w", err)
			}
			list = append(list, s)
		}
		*v = AnswerValue{kind: AnswerList, list: list}
	case '{':
		var ref fileRefJSON
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*v = FileAnswer(ref.FileRef)
	case 't', 'f':
		s, err := scalarString(data)
		if err != nil {
			return err
		}
		*v = TextAnswer(s)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported answer value %s: %w", data, err)
		}
		*v = NumberAnswer(n)
	}
	return nil
}

// AnswerSet maps question ids to answers.
type AnswerSet map[string]AnswerValue

// Get returns the answer for id; absent answers come back as the zero value.
func (a AnswerSet) Get(id string) AnswerValue {
	if a == nil {
		return AnswerValue{}
	}
	return a[id]
}

// Clone returns a shallow copy of the set. Values are immutable, so it
// shares nothing mutable with the receiver.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// With returns a copy of the set with id set to value. Absent values remove
// the key.
func (a AnswerSet) With(id string, value AnswerValue) AnswerSet {
	out := a.Clone()
	if value.IsAbsent() {
		delete(out, id)
	} else {
		out[id] = value
	}
	return out
}

// Submission is a candidate's final answers for a job. It is never updated.
type Submission struct {
	ID          string    `json:"id"`
	JobID       uint      `json:"jobId"`
	CandidateID uint      `json:"candidateId"`
	Answers     AnswerSet `json:"answers"`
	SubmittedAt time.Time `json:"submittedAt"`
}
