package raw

import "fmt"

// ObjectRef uniquely identifies an indirect PDF object.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// Object is the base interface for all raw PDF objects.
type Object interface {
	Type() string
	IsIndirect() bool
}

// Name represents a PDF name object.
type Name interface {
	Object
	Value() string
}

// Dictionary represents a PDF dictionary object.
type Dictionary interface {
	Object
	Get(key Name) (Object, bool)
	Set(key Name, value Object)
	Keys() []Name
	Len() int
}

// Array represents a PDF array object.
type Array interface {
	Object
	Get(index int) (Object, bool)
	Len() int
	Append(obj Object)
}

// Stream represents a PDF stream object together with its dictionary.
type Stream interface {
	Object
	Dictionary() Dictionary
	RawData() []byte
	Length() int64
}
