package schema

// fieldDef declares one canonical field: its dotted path within the group,
// display names, and the ordered list of native-key aliases observed across
// providers. Aliases are absolute paths from the record root, so both flat
// top-level keys and differently nested keys resolve onto the same slot.
// Adding a new provider's key variants is a data change here, not a logic
// change anywhere else.
type fieldDef struct {
	path      string
	display   string
	displayCN string
	aliases   []string
}

// groupDef is an ordered set of canonical fields under one group name.
type groupDef struct {
	name   string
	fields []fieldDef
}

// documentGroups is the fixed canonical taxonomy for document-level fields,
// in the order comparison rows are rendered.
var documentGroups = []groupDef{
	{
		name: "document_info",
		fields: []fieldDef{
			{path: "document_type", display: "Document Type"},
			{path: "customs_declaration_no", display: "Customs Declaration No.", displayCN: "海关编号",
				aliases: []string{"customs_declaration_number", "DeclarationNo"}},
			{path: "declaration_date", display: "Declaration Date", displayCN: "申报日期",
				aliases: []string{"declaration_date", "DateOfDeclaration"}},
			{path: "export_date", display: "Export Date", displayCN: "出口日期",
				aliases: []string{"DateOfEntry"}},
		},
	},
	{
		name: "parties",
		fields: []fieldDef{
			{path: "consignor.name", display: "Consignor Name", displayCN: "境内发货人",
				aliases: []string{"declaration_company", "ConsignorName"}},
			{path: "consignor.code", display: "Consignor Code",
				aliases: []string{"ConsignorNo"}},
			{path: "consignee", display: "Consignee", displayCN: "境外收货人",
				aliases: []string{"consignee", "ConsigneeName"}},
			{path: "declaring_agent", display: "Declaring Agent", displayCN: "申报单位",
				aliases: []string{"declarant", "Declarant"}},
		},
	},
	{
		name: "coded_attributes",
		fields: []fieldDef{
			{path: "trade_mode", display: "Trade Mode", displayCN: "监管方式",
				aliases: []string{"TradeTerms"}},
			{path: "trade_mode_id", display: "Trade Mode ID"},
			{path: "levy_nature", display: "Levy Nature", displayCN: "征免性质",
				aliases: []string{"ExemptionType"}},
			{path: "levy_nature_id", display: "Levy Nature ID"},
			{path: "customs_office", display: "Customs Office", displayCN: "出境关别",
				aliases: []string{"declaration_port", "CustomsName"}},
			{path: "customs_office_id", display: "Customs Office ID"},
			{path: "exit_port", display: "Exit Port", displayCN: "离境口岸",
				aliases: []string{"PortOfLoading"}},
			{path: "exit_port_id", display: "Exit Port ID"},
			{path: "transaction_mode", display: "Transaction Mode", displayCN: "成交方式",
				aliases: []string{"TradeTerms"}},
			{path: "transaction_mode_id", display: "Transaction Mode ID"},
			{path: "transport_mode", display: "Transport Mode", displayCN: "运输方式",
				aliases: []string{"ModeOfTransport"}},
			{path: "transport_mode_id", display: "Transport Mode ID"},
			{path: "domestic_source_place", display: "Domestic Source Place", displayCN: "境内货源地",
				aliases: []string{"origin_country", "CountryOfOrigin"}},
			{path: "domestic_source_place_id", display: "Domestic Source Place ID"},
			{path: "wrapping_type", display: "Wrapping Type", displayCN: "包装种类",
				aliases: []string{"PackingType"}},
			{path: "wrapping_type_id", display: "Wrapping Type ID"},
		},
	},
	{
		name: "logistics",
		fields: []fieldDef{
			{path: "trading_country", display: "Trading Country", displayCN: "贸易国(地区)",
				aliases: []string{"CountryOfOrigin"}},
			{path: "trading_country_id", display: "Trading Country ID"},
			{path: "destination_country", display: "Destination Country", displayCN: "运抵国(地区)",
				aliases: []string{"destination_country", "CountryOfDestination"}},
			{path: "destination_country_id", display: "Destination Country ID"},
			{path: "destination_port", display: "Destination Port", displayCN: "指运港",
				aliases: []string{"PortOfDischarge"}},
			{path: "destination_port_id", display: "Destination Port ID"},
			{path: "transport_tool_id", display: "Transport Tool ID", displayCN: "运输工具名称及航次号",
				aliases: []string{"TransportNo"}},
			{path: "bill_of_lading_no", display: "Bill of Lading No.", displayCN: "提运单号"},
		},
	},
	{
		name: "summary",
		fields: []fieldDef{
			{path: "total_packages", display: "Total Packages", displayCN: "件数",
				aliases: []string{"total_packages", "ContainerNo"}},
			{path: "gross_weight_kg", display: "Gross Weight (kg)", displayCN: "毛重(千克)",
				aliases: []string{"gross_weight_kg", "total_weight", "GrossWeight"}},
			{path: "net_weight_kg", display: "Net Weight (kg)", displayCN: "净重(千克)",
				aliases: []string{"net_weight_kg", "total_weight", "NetWeight"}},
		},
	},
}

// ItemsGroup is the group name of the repeating line-item fields.
const ItemsGroup = "items"

// itemFields is the fixed field order within each line item.
var itemFields = []fieldDef{
	{path: "line_no", display: "Line No.", displayCN: "项号"},
	{path: "hs_code", display: "HS Code", displayCN: "商品编号",
		aliases: []string{"goods_code", "CommodityCode"}},
	{path: "product_name_cn", display: "Product Name (CN)", displayCN: "商品名称",
		aliases: []string{"goods_description", "CommodityName"}},
	{path: "specification", display: "Specification", displayCN: "规格型号",
		aliases: []string{"MarkingAndNumbering"}},
	{path: "quantity", display: "Quantity", displayCN: "数量",
		aliases: []string{"quantity", "Quantity"}},
	{path: "unit", display: "Unit", displayCN: "单位"},
	{path: "unit_price", display: "Unit Price", displayCN: "单价",
		aliases: []string{"unit_price", "UnitPrice"}},
	{path: "total_price", display: "Total Price", displayCN: "总价",
		aliases: []string{"total_price", "TotalPrice"}},
	{path: "net_weight_kg", display: "Net Weight (kg)", displayCN: "净重",
		aliases: []string{"total_weight", "NetWeight"}},
	{path: "origin_country", display: "Origin Country", displayCN: "原产国(地区)",
		aliases: []string{"origin_country", "CountryOfOrigin"}},
	{path: "origin_country_id", display: "Origin Country ID"},
	{path: "final_destination_country", display: "Final Destination Country", displayCN: "最终目的国(地区)"},
	{path: "final_destination_country_id", display: "Final Destination Country ID"},
	{path: "domestic_source_place", display: "Domestic Source Place", displayCN: "境内货源地"},
	{path: "domestic_source_place_id", display: "Domestic Source Place ID"},
	{path: "tax_mode", display: "Tax Mode", displayCN: "征免"},
	{path: "tax_mode_id", display: "Tax Mode ID"},
}

// DisplayName returns the English display name for a canonical field, or the
// field path when the field is not part of the taxonomy.
func DisplayName(f CanonicalField) string {
	if def, ok := lookupDef(f); ok {
		return def.display
	}
	return f.Name
}

// DisplayNameCN returns the Chinese display name for a canonical field,
// falling back to the English display name where no Chinese label exists.
func DisplayNameCN(f CanonicalField) string {
	if def, ok := lookupDef(f); ok {
		if def.displayCN != "" {
			return def.displayCN
		}
		return def.display
	}
	return f.Name
}

func lookupDef(f CanonicalField) (fieldDef, bool) {
	if f.Item != NoItem || f.Group == ItemsGroup {
		for _, def := range itemFields {
			if def.path == f.Name {
				return def, true
			}
		}
		return fieldDef{}, false
	}
	for _, g := range documentGroups {
		if g.name != f.Group {
			continue
		}
		for _, def := range g.fields {
			if def.path == f.Name {
				return def, true
			}
		}
	}
	return fieldDef{}, false
}
