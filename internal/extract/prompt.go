// Package extract wires document-type prompts to the extraction provider
// registry.
package extract

import (
	"strings"

	"tradedocs/internal/domain"
)

const declarationPrompt = `You are a specialized trade document parser. Extract the following fields from the Export Declaration (报关单) and return the data in a strict JSON format.

Here is the text extracted from the page (may contain errors):
"""
{{EXTRACTED_TEXT}}
"""

**JSON Schema:**
{
  "document_info": {
    "document_type": "The type of document (e.g., Customs Export Declaration)",
    "customs_declaration_no": "The customs declaration number (报关单号)",
    "declaration_date": "The date of declaration (申报日期) in YYYY-MM-DD format",
    "export_date": "The date of export (出口日期) in YYYY-MM-DD format"
  },
  "parties": {
    "consignor": {
      "name": "The name of the domestic consignor (境内发货人)",
      "code": "The code of the domestic consignor"
    },
    "consignee": "The name of the overseas consignee (境外收货人)",
    "declaring_agent": "The name and code of the declaring agent (申报单位)"
  },
  "coded_attributes": {
    "trade_mode": "The trade mode (监管方式)",
    "levy_nature": "The nature of levy and exemption (征免性质)",
    "customs_office": "The customs office (备案号)",
    "exit_port": "The port of exit (出/境关别)",
    "transaction_mode": "The transaction mode (成交方式)",
    "transport_mode": "The mode of transport (运输方式)",
    "domestic_source_place": "The domestic source of goods (境内货源地)",
    "wrapping_type": "The wrapping type (包装种类)"
  },
  "logistics": {
    "trading_country": "The trading country (运抵国(地区))",
    "destination_country": "The destination country (指运港)",
    "destination_port": "The destination port (离境口岸)",
    "transport_tool_id": "The transport tool ID (运输工具名称及航次号)",
    "bill_of_lading_no": "The bill of lading number (提运单号)"
  },
  "items": [
    {
      "line_no": "The item line number",
      "hs_code": "The HS code (商品编号)",
      "product_name_cn": "The Chinese name of the product (商品名称)",
      "specification": "The product specification (规格型号)",
      "quantity": "The quantity (数量)",
      "unit": "The unit of quantity (单位)",
      "unit_price": "The unit price (单价)",
      "total_price": "The total price (总价)",
      "net_weight_kg": "The net weight in kg (净重)",
      "origin_country": "The country of origin (原产国)",
      "final_destination_country": "The final destination country (最终目的国)",
      "domestic_source_place": "The domestic source place (境内货源地)",
      "tax_mode": "The tax mode (征免)"
    }
  ],
  "summary": {
    "total_packages": "The total number of packages (件数)",
    "gross_weight_kg": "The gross weight in kg (毛重)",
    "net_weight_kg": "The net weight in kg (净重)"
  }
}

RETURN ONLY JSON. NO MARKDOWN.
`

var prompts = map[domain.DocumentType]string{
	domain.DocTypeDeclaration:  declarationPrompt,
	domain.DocTypeNotification: "You are a detailed data extractor. Parse the Customs Release Notification (通关无纸化出口放行通知书) into a strict JSON format as previously instructed. RETURN ONLY JSON. NO MARKDOWN.",
	domain.DocTypePacking:      "You are an inventory management assistant. Parse the Cargo List into a strict JSON format as previously instructed. RETURN ONLY JSON. NO MARKDOWN.",
}

// BuildPrompt renders the prompt template for a document type, substituting
// the page text into the {{EXTRACTED_TEXT}} placeholder where the template
// carries one.
func BuildPrompt(docType domain.DocumentType, extractedText string) (string, error) {
	tmpl, ok := prompts[docType]
	if !ok {
		return "", domain.ErrUnknownDocumentType
	}
	return strings.ReplaceAll(tmpl, "{{EXTRACTED_TEXT}}", extractedText), nil
}
