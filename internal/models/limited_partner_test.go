package models

import "testing"

func TestLimitedPartner_CanEditDeals(t *testing.T) {
	cases := []struct {
		partnerType string
		want        bool
	}{
		{PartnerTypeGeneral, true},
		{PartnerTypeVenture, true},
		{PartnerTypeLimited, false},
		{"", false},
	}
	for _, tc := range cases {
		lp := LimitedPartner{PartnerType: tc.partnerType}
		if lp.CanEditDeals() != tc.want {
			t.Fatalf("%q CanEditDeals=%v want %v", tc.partnerType, lp.CanEditDeals(), tc.want)
		}
	}
}
