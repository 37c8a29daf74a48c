package generators

import "github.com/go-faker/faker/v4"

// FakerNameField renders "Last, First" from faker's name lists. Faker keeps
// its own random source, so these values do not follow the run seed.
type FakerNameField struct {
	column string
}

func FakerName(column string) *FakerNameField {
	return &FakerNameField{column: column}
}

func (f *FakerNameField) Columns() []string {
	return []string{f.column}
}

func (f *FakerNameField) Produce() ([]interface{}, error) {
	return []interface{}{faker.LastName() + ", " + faker.FirstName()}, nil
}
