// Copyright 2025 The Probekit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package probekit

// goodMultipliers holds odd 64-bit constants with their high bit set, used as
// Fibonacci-hashing multipliers. The values were produced offline by running
// a splitmix64-style mixer over a counter and forcing the low and high bits;
// the construction gives every entry a roughly even bit population and no
// shared low-bit structure, so consecutive generations of the same table
// place keys independently.
//
// nextMultiplier indexes this table deterministically from the previous
// multiplier and the table's new shift. Using a fixed table rather than fresh
// randomness keeps resizes reproducible for a given operation sequence while
// still decorrelating placements across generations, which is what defeats
// inputs crafted to collide under one particular multiplier.
var goodMultipliers = [128]uint64{
	0xE220A8397B1DCDAF, 0xAC738178BF0EE1D1, 0x81B5F361B701737D, 0x8FD700FFAE7037ED,
	0x9AF66B72D0D3B6E9, 0xCEB77783A322900B, 0xC4CEDF04F2F78BFD, 0xF7C068FD668B4131,
	0xF55A5535D65B1645, 0xC0F9AAF52F0EAACB, 0xAE06F6CEFD65E081, 0x9CA4476518A737CD,
	0x9D2189016D16B315, 0xC9A936801C58ABC1, 0x894B353AD7404943, 0xD6C137B30FAE2F01,
	0x8D118E041680AF9D, 0x8579B6CD5EBFFB3D, 0xD0F2580CA6076A59, 0x95E128B4F3584483,
	0xC189F8DA0BEA8A3B, 0xAE41815ED950D7E5, 0xE7B58C3D743DDC89, 0xA06DD8747AF1DE85,
	0xD95A05E1618F19B9, 0xFA4CBA8428F82689, 0xDE622823A287EC0D, 0xE0DA5168D1789737,
	0x9D889933437E8127, 0xEA5FE951B79F0517, 0xC3F9D44B0F718481, 0xE27668082051EC11,
	0xBC0F5CBE427C18F7, 0xFA8D4C524C5427C7, 0x8C4D36B78AE95EEF, 0xD29A4FCB8F1F9C61,
	0x9BBF1A3892D6812F, 0xBC39500379D57091, 0xAA2C9A7CE13125AB, 0xF802D684D8B376D9,
	0x9DCB359A881BBD37, 0x935423B01B9AE443, 0xCC9897D75885154B, 0xA5BD6E7E4A3C6021,
	0xC5D5D9A809F9C8FD, 0x87F1B9505EA93B13, 0xB5354377691BFB49, 0xA7BB91E5CC42554D,
	0xDC3FE96A429657E5, 0xF10AD09AD5005E47, 0xAB7EB8A801FD2103, 0xE9E0F2118AFFE089,
	0xE5A0343218153D55, 0xE584728ECDF9A051, 0xA9ED375F25AB6561, 0x9D061557FF3583D9,
	0xB899231208B481F7, 0xCBA7FB7F1F9E710F, 0xEFB4A7396363CF03, 0xDAF44710679ECCCB,
	0x9A2913D7A14ABAE3, 0xB7EB0EA97555058D, 0x90FD402FCCA12607, 0xC4749B2BA24A43DB,
	0x8BD4005E682ABDCD, 0xEC91EA8417D45039, 0xDCAD9C050415E225, 0x9C7A81E8705C6311,
	0xC17D5DC91110A95F, 0xDCE72FFB58AB982B, 0x9CABB4C32A06769B, 0xFCA080EC8944C72D,
	0x99918CBA37CD724D, 0xC47EB37B926A285B, 0xD2C51084E37A5763, 0xBF4265309BA54449,
	0x9DBA3C0AA7C682EB, 0xEDD5FB2E85040D11, 0xD079A7475BF8DF0B, 0x924593C851BAF0CF,
	0xEE2F0737890E9C51, 0xD6E7C8F8DA91E905, 0x85C2C5D818C45C17, 0xB01227EA48AFF629,
	0x81375A91054D9A6F, 0xEF1BB31E0C4EB61F, 0xFE8545981C87875B, 0xF6DA068EC7DFA34D,
	0xEAFA203CB581B511, 0x9D52144290C6C61F, 0xBA63C5701C1C7DBB, 0xF1CA53339EF39493,
	0xEB89B500B4BDAAF5, 0x944D3BB71A32D715, 0x818241F74B185F41, 0xD81C7B1645659F4D,
	0xEE82C15ED1C26553, 0xF25E7E902090D2E5, 0xDD551A2F90BDD0E9, 0xA3E739E3C6D3B1FD,
	0xC42DCBBD39F7A0B3, 0xFAF57191606ED4EB, 0xFEED9B0A7B0CD1F9, 0xB5D4154C65E13F39,
	0x9A821DC4C97932C9, 0x9105953AD8D49C0B, 0x88725E2D242EFC55, 0xBC34AFA8F8EA4B1F,
	0x8427918F72EE0849, 0xCA09F08AB1B77BE3, 0xCF0E53B0B7343E9B, 0xE1781C5291589929,
	0xC17CEC69F53D5409, 0xA0D5CE3D57BF0E91, 0xFB2481428554F57B, 0x99E749168386E33D,
	0xC67F66A11087D143, 0x9A9D8874F5E2B78D, 0x85AB820723213125, 0xD2FF63CF0B7F924F,
	0x9483A5AE0BD54DFF, 0xD655A35A4DC362FD, 0x84233B2630223983, 0xE2AC8FAA765E8DAD,
	0xEEBF19E97F5341DB, 0xAECA283DD211463B, 0xB06208390F70FAC5, 0xA2BC97CBB3203BC3,
}

// nextMultiplier picks the multiplier for a table's next generation from the
// high bits of the previous multiplier and the new shift.
func nextMultiplier(prev uint64, shift uint) uint64 {
	return goodMultipliers[(prev>>48+uint64(shift))&uint64(len(goodMultipliers)-1)]
}
