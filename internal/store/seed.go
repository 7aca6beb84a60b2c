package store

import "encoding/json"

// demoDocuments is the dataset written by Seed, used to populate a demo
// installation from /api/default/export.
var demoDocuments = map[Category]string{
	CategoryPatients: `[
  {"id":"1714650001000","firstName":"Ann","lastName":"Lee","sex":"F","birthdate":"1990-01-01","position":"Captain","citizenship":"US","passportNumber":"X100001","passportIssue":"2021-03-10","passportExpiry":"2031-03-09","emergencyContact":{"name":"Tom Lee","phone":"+1 555 0100","relation":"spouse"},"history":""},
  {"id":"1714650002000","firstName":"Jonas","lastName":"Berg","sex":"M","birthdate":"1985-06-12","position":"Engineer","citizenship":"NO","passportNumber":"N200482","passportIssue":"2019-08-01","passportExpiry":"2029-07-31","emergencyContact":{"name":"Mia Berg","phone":"+47 555 0202","relation":"sister"},"history":"Mild shellfish allergy."}
]`,
	CategoryHistory: `[
  {"id":"h-1","patient":"Ann Lee","date":"2026-05-02","title":"Seasickness","query":"Persistent nausea in heavy swell","response":"Rest, hydration, meclizine 25mg as needed."},
  {"id":"h-2","patient":"Inquiry","date":"2026-05-03","title":"Burn dressing","query":"How to dress a minor galley burn?","response":"Cool under running water, non-adherent dressing, review daily."}
]`,
	CategorySettings: `{}`,
	CategoryTools: `[
  {"id":"t-1","name":"Blood pressure monitor","category":"Diagnostics","type":"durable","location":"Bridge locker","status":"ok","lastInspection":"2026-03-15","calibrationDue":"2027-03-15","quantity":1,"parLevel":1,"supplier":"MedSupply AS"}
]`,
	CategoryInventory: `[
  {"id":"m-1","name":"Paracetamol 500mg","category":"Analgesics","type":"medication","location":"Medical chest","subLocation":"Drawer A","status":"ok","expiry":"2027-11-30","quantity":40,"parLevel":20,"supplier":"MedSupply AS"},
  {"id":"c-1","name":"Sterile gauze 10x10","category":"Dressings","type":"consumable","location":"Medical chest","subLocation":"Drawer C","status":"ok","expiry":"2029-01-31","quantity":25,"parLevel":10}
]`,
	CategoryVessel: `{"name":"MV Petrel","callSign":"LN-4821","flag":"NO","homePort":"Bergen","imoNumber":"9470001","mmsi":"257004821","grossTonnage":"499"}`,
}

// Seed writes the demo dataset into every category, overwriting what is
// there. Settings are left empty so defaults apply.
func (s *Store) Seed() error {
	for c, doc := range demoDocuments {
		if err := s.Replace(c, json.RawMessage(doc)); err != nil {
			return err
		}
	}
	return nil
}
