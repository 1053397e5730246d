package datasets

import "github.com/petrocom/uts/internal/records"

func text(name, label string) records.Field {
	return records.Field{Name: name, Label: label, Kind: records.KindString, Searchable: true}
}

func plain(name, label string) records.Field {
	return records.Field{Name: name, Label: label, Kind: records.KindString}
}

func category(name, label string) records.Field {
	return records.Field{Name: name, Label: label, Kind: records.KindCategory}
}

func number(name, label string) records.Field {
	return records.Field{Name: name, Label: label, Kind: records.KindNumber}
}

func date(name, label string) records.Field {
	return records.Field{Name: name, Label: label, Kind: records.KindTime}
}
