package tables

var Tables = []interface{}{
	&Records{},
	&ContentCache{},
}
