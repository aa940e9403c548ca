package documents

import "github.com/jhoicas/mostrador-api/internal/domain/entity"

// itemDiff cambios a aplicar sobre los ítems guardados, alineados por posición.
// DeleteFrom = 0 significa que no se borra nada.
type itemDiff struct {
	Updates    []entity.DocumentItem
	Inserts    []entity.DocumentItem
	DeleteFrom int
}

// Empty indica que los ítems deseados coinciden con los guardados.
func (d itemDiff) Empty() bool {
	return len(d.Updates) == 0 && len(d.Inserts) == 0 && d.DeleteFrom == 0
}

// diffItems compara posición a posición. desired ya trae Position 1..n y sin ID;
// los ítems que se actualizan conservan el ID del guardado en esa posición.
func diffItems(current, desired []entity.DocumentItem) itemDiff {
	var d itemDiff
	for i, want := range desired {
		if i >= len(current) {
			d.Inserts = append(d.Inserts, want)
			continue
		}
		have := current[i]
		want.ID = have.ID
		if !sameItem(have, want) {
			d.Updates = append(d.Updates, want)
		}
	}
	if len(current) > len(desired) {
		d.DeleteFrom = len(desired) + 1
	}
	return d
}

func sameItem(a, b entity.DocumentItem) bool {
	return a.Position == b.Position &&
		a.ProductID == b.ProductID &&
		a.Description == b.Description &&
		a.Quantity.Equal(b.Quantity) &&
		a.UnitPrice.Equal(b.UnitPrice) &&
		a.Subtotal.Equal(b.Subtotal)
}
