// Package mock provides mock implementations for testing.
package mock

import (
	"github.com/stretchr/testify/mock"

	"github.com/heap-browser/internal/heap"
)

// MockHeap is a mock implementation of the heap.Heap interface.
type MockHeap struct {
	mock.Mock
}

// FieldsOf mocks the FieldsOf method.
func (m *MockHeap) FieldsOf(id heap.InstanceID) []heap.FieldValue {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]heap.FieldValue)
}

// ReferencesOf mocks the ReferencesOf method.
func (m *MockHeap) ReferencesOf(id heap.InstanceID) []heap.FieldValue {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]heap.FieldValue)
}

// ArrayValuesOf mocks the ArrayValuesOf method.
func (m *MockHeap) ArrayValuesOf(id heap.InstanceID) []heap.Value {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]heap.Value)
}

// InstanceByID mocks the InstanceByID method.
func (m *MockHeap) InstanceByID(id heap.InstanceID) (heap.Instance, bool) {
	args := m.Called(id)
	return args.Get(0).(heap.Instance), args.Bool(1)
}

// ClassByID mocks the ClassByID method.
func (m *MockHeap) ClassByID(id heap.ClassID) (heap.Class, bool) {
	args := m.Called(id)
	return args.Get(0).(heap.Class), args.Bool(1)
}

// ClassOf mocks the ClassOf method.
func (m *MockHeap) ClassOf(id heap.InstanceID) (heap.Class, bool) {
	args := m.Called(id)
	return args.Get(0).(heap.Class), args.Bool(1)
}

// GCRootOf mocks the GCRootOf method.
func (m *MockHeap) GCRootOf(id heap.InstanceID) (heap.GCRoot, bool) {
	args := m.Called(id)
	return args.Get(0).(heap.GCRoot), args.Bool(1)
}

// Instances mocks the Instances method.
func (m *MockHeap) Instances(fn func(heap.Instance) bool) {
	m.Called(fn)
}

// ExpectFieldsOf sets up an expectation for FieldsOf.
func (m *MockHeap) ExpectFieldsOf(id heap.InstanceID, fields []heap.FieldValue) *mock.Call {
	return m.On("FieldsOf", id).Return(fields)
}

// ExpectReferencesOf sets up an expectation for ReferencesOf.
func (m *MockHeap) ExpectReferencesOf(id heap.InstanceID, refs []heap.FieldValue) *mock.Call {
	return m.On("ReferencesOf", id).Return(refs)
}

// ExpectInstanceByID sets up an expectation for InstanceByID.
func (m *MockHeap) ExpectInstanceByID(id heap.InstanceID, inst heap.Instance, ok bool) *mock.Call {
	return m.On("InstanceByID", id).Return(inst, ok)
}

// ExpectClassOf sets up an expectation for ClassOf.
func (m *MockHeap) ExpectClassOf(id heap.InstanceID, cls heap.Class, ok bool) *mock.Call {
	return m.On("ClassOf", id).Return(cls, ok)
}

// MockLanguage is a mock implementation of the heap.Language interface.
type MockLanguage struct {
	mock.Mock
}

// Name mocks the Name method.
func (m *MockLanguage) Name() string {
	args := m.Called()
	return args.String(0)
}

// IsLanguageObject mocks the IsLanguageObject method.
func (m *MockLanguage) IsLanguageObject(h heap.Heap, inst heap.Instance) bool {
	args := m.Called(h, inst)
	return args.Bool(0)
}

// CreateObject mocks the CreateObject method.
func (m *MockLanguage) CreateObject(h heap.Heap, inst heap.Instance) heap.DomainObject {
	args := m.Called(h, inst)
	return args.Get(0).(heap.DomainObject)
}
