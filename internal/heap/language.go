package heap

import "strings"

// DynamicObjectClass is the base class of Truffle dynamic objects. Any
// instance whose class hierarchy reaches it is treated as a dynamic object
// regardless of the guest language.
const DynamicObjectClass = "com.oracle.truffle.api.object.DynamicObject"

// Language recognizes guest-language objects inside a host heap and wraps
// them into DomainObjects for presentation.
type Language interface {
	// Name returns the language identifier, e.g. "js" or "ruby".
	Name() string
	// IsLanguageObject reports whether the instance belongs to this
	// language's object model.
	IsLanguageObject(h Heap, inst Instance) bool
	// CreateObject wraps a recognized instance. Callers must check
	// IsLanguageObject first.
	CreateObject(h Heap, inst Instance) DomainObject
}

// DomainObject is a guest-language view of a heap instance.
type DomainObject struct {
	Instance Instance
	Type     string // language-level type name
	Language string
}

// IsDynamicObject walks the superclass chain of an instance looking for the
// dynamic-object base class.
func IsDynamicObject(h Heap, inst Instance) bool {
	cls, ok := h.ClassOf(inst.ID)
	for ok {
		if cls.Name == DynamicObjectClass {
			return true
		}
		if cls.SuperID == 0 {
			return false
		}
		cls, ok = h.ClassByID(cls.SuperID)
	}
	return false
}

// ToDynamicObject wraps a dynamic-object instance. The type name is the
// instance's own class name with the package prefix stripped.
func ToDynamicObject(h Heap, inst Instance) (DomainObject, bool) {
	if !IsDynamicObject(h, inst) {
		return DomainObject{}, false
	}
	name := TypeNameOf(h, inst.ID)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return DomainObject{Instance: inst, Type: name, Language: "dynamic"}, true
}

// PrefixLanguage recognizes language objects by class-name prefix. It is the
// default Language used by the CLI and tests; real guest languages plug in
// their own implementation.
type PrefixLanguage struct {
	LangName    string
	ClassPrefix string
}

// Name implements Language.
func (l *PrefixLanguage) Name() string { return l.LangName }

// IsLanguageObject implements Language.
func (l *PrefixLanguage) IsLanguageObject(h Heap, inst Instance) bool {
	cls, ok := h.ClassOf(inst.ID)
	if !ok {
		return false
	}
	return strings.HasPrefix(cls.Name, l.ClassPrefix)
}

// CreateObject implements Language.
func (l *PrefixLanguage) CreateObject(h Heap, inst Instance) DomainObject {
	name := TypeNameOf(h, inst.ID)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return DomainObject{Instance: inst, Type: name, Language: l.LangName}
}
