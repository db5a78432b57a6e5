package qnty

import "math"

// ============================================================
// Standard unit catalog
// ============================================================

const (
	inchSI      = 0.0254
	footSI      = 0.3048
	poundSI     = 0.45359237
	gravitySI   = 9.80665
	poundForce  = poundSI * gravitySI
	psiSI       = poundForce / (inchSI * inchSI)
	gallonSI    = 231 * inchSI * inchSI * inchSI
	fahrenheitK = 5.0 / 9.0
)

// StandardCatalog returns SI base and derived units plus common US customary
// units. The first coherent unit of each dimension doubles as the canonical
// result unit for arithmetic.
func StandardCatalog() []UnitDef {
	return []UnitDef{
		// Dimensionless
		{Name: "dimensionless", Symbol: "", Sig: Dimensionless, Factor: 1, Aliases: []string{"unitless", "1", "none"}, Preferred: true},
		{Name: "radian", Symbol: "rad", Sig: Dimensionless, Factor: 1},
		{Name: "degree", Symbol: "°", Sig: Dimensionless, Factor: math.Pi / 180, Aliases: []string{"deg", "degree of arc"}},
		{Name: "percent", Symbol: "%", Sig: Dimensionless, Factor: 0.01, Aliases: []string{"pct"}},

		// Length
		{Name: "meter", Symbol: "m", Sig: SigLength, Factor: 1, Preferred: true},
		{Name: "kilometer", Symbol: "km", Sig: SigLength, Factor: 1e3},
		{Name: "centimeter", Symbol: "cm", Sig: SigLength, Factor: 1e-2},
		{Name: "millimeter", Symbol: "mm", Sig: SigLength, Factor: 1e-3},
		{Name: "micrometer", Symbol: "µm", Sig: SigLength, Factor: 1e-6, Aliases: []string{"um", "micron"}},
		{Name: "inch", Symbol: "in", Sig: SigLength, Factor: inchSI, Aliases: []string{"inches", "\""}},
		{Name: "foot", Symbol: "ft", Sig: SigLength, Factor: footSI, Aliases: []string{"feet", "'"}},
		{Name: "yard", Symbol: "yd", Sig: SigLength, Factor: 3 * footSI},
		{Name: "mile", Symbol: "mi", Sig: SigLength, Factor: 5280 * footSI},

		// Mass
		{Name: "kilogram", Symbol: "kg", Sig: SigMass, Factor: 1, Preferred: true},
		{Name: "gram", Symbol: "g", Sig: SigMass, Factor: 1e-3},
		{Name: "milligram", Symbol: "mg", Sig: SigMass, Factor: 1e-6},
		{Name: "tonne", Symbol: "t", Sig: SigMass, Factor: 1e3, Aliases: []string{"metric ton"}},
		{Name: "pound", Symbol: "lb", Sig: SigMass, Factor: poundSI, Aliases: []string{"lbm", "pound mass"}},
		{Name: "slug", Symbol: "slug", Sig: SigMass, Factor: poundForce / footSI},

		// Time
		{Name: "second", Symbol: "s", Sig: SigTime, Factor: 1, Aliases: []string{"sec"}, Preferred: true},
		{Name: "millisecond", Symbol: "ms", Sig: SigTime, Factor: 1e-3},
		{Name: "minute", Symbol: "min", Sig: SigTime, Factor: 60},
		{Name: "hour", Symbol: "h", Sig: SigTime, Factor: 3600, Aliases: []string{"hr"}},
		{Name: "day", Symbol: "d", Sig: SigTime, Factor: 86400},

		// Current
		{Name: "ampere", Symbol: "A", Sig: SigCurrent, Factor: 1, Aliases: []string{"amp"}, Preferred: true},
		{Name: "milliampere", Symbol: "mA", Sig: SigCurrent, Factor: 1e-3},

		// Temperature
		{Name: "kelvin", Symbol: "K", Sig: SigTemperature, Factor: 1, Preferred: true},
		{Name: "celsius", Symbol: "°C", Sig: SigTemperature, Factor: 1, Offset: 273.15, Aliases: []string{"degC", "degree celsius", "degrees celsius"}},
		{Name: "fahrenheit", Symbol: "°F", Sig: SigTemperature, Factor: fahrenheitK, Offset: 273.15 - 32*fahrenheitK, Aliases: []string{"degF", "degree fahrenheit", "degrees fahrenheit"}},
		{Name: "rankine", Symbol: "°R", Sig: SigTemperature, Factor: fahrenheitK, Aliases: []string{"degR"}},

		// Amount, luminosity
		{Name: "mole", Symbol: "mol", Sig: SigAmount, Factor: 1, Preferred: true},
		{Name: "candela", Symbol: "cd", Sig: SigLuminosity, Factor: 1, Preferred: true},

		// Area
		{Name: "square meter", Symbol: "m²", Sig: SigArea, Factor: 1, Aliases: []string{"m^2", "sq m"}, Preferred: true},
		{Name: "square millimeter", Symbol: "mm²", Sig: SigArea, Factor: 1e-6, Aliases: []string{"mm^2"}},
		{Name: "square inch", Symbol: "in²", Sig: SigArea, Factor: inchSI * inchSI, Aliases: []string{"in^2", "sq in"}},
		{Name: "square foot", Symbol: "ft²", Sig: SigArea, Factor: footSI * footSI, Aliases: []string{"ft^2", "sq ft"}},

		// Volume
		{Name: "cubic meter", Symbol: "m³", Sig: SigVolume, Factor: 1, Aliases: []string{"m^3"}, Preferred: true},
		{Name: "liter", Symbol: "L", Sig: SigVolume, Factor: 1e-3},
		{Name: "milliliter", Symbol: "mL", Sig: SigVolume, Factor: 1e-6},
		{Name: "cubic inch", Symbol: "in³", Sig: SigVolume, Factor: inchSI * inchSI * inchSI, Aliases: []string{"in^3"}},
		{Name: "gallon", Symbol: "gal", Sig: SigVolume, Factor: gallonSI},

		// Kinematics
		{Name: "meter per second", Symbol: "m/s", Sig: SigVelocity, Factor: 1, Preferred: true},
		{Name: "kilometer per hour", Symbol: "km/h", Sig: SigVelocity, Factor: 1e3 / 3600, Aliases: []string{"kph"}},
		{Name: "foot per second", Symbol: "ft/s", Sig: SigVelocity, Factor: footSI, Aliases: []string{"fps"}},
		{Name: "mile per hour", Symbol: "mph", Sig: SigVelocity, Factor: 5280 * footSI / 3600},
		{Name: "meter per second squared", Symbol: "m/s²", Sig: SigAcceleration, Factor: 1, Aliases: []string{"m/s^2"}, Preferred: true},
		{Name: "standard gravity", Symbol: "g0", Sig: SigAcceleration, Factor: gravitySI, Aliases: []string{"gn"}},
		{Name: "hertz", Symbol: "Hz", Sig: SigFrequency, Factor: 1, Preferred: true},
		{Name: "revolution per minute", Symbol: "rpm", Sig: SigFrequency, Factor: 1.0 / 60},

		// Force
		{Name: "newton", Symbol: "N", Sig: SigForce, Factor: 1, Preferred: true},
		{Name: "kilonewton", Symbol: "kN", Sig: SigForce, Factor: 1e3},
		{Name: "pound force", Symbol: "lbf", Sig: SigForce, Factor: poundForce},
		{Name: "kip", Symbol: "kip", Sig: SigForce, Factor: 1e3 * poundForce},

		// Pressure, stress
		{Name: "pascal", Symbol: "Pa", Sig: SigPressure, Factor: 1, Preferred: true},
		{Name: "kilopascal", Symbol: "kPa", Sig: SigPressure, Factor: 1e3},
		{Name: "megapascal", Symbol: "MPa", Sig: SigPressure, Factor: 1e6},
		{Name: "gigapascal", Symbol: "GPa", Sig: SigPressure, Factor: 1e9},
		{Name: "bar", Symbol: "bar", Sig: SigPressure, Factor: 1e5},
		{Name: "pound per square inch", Symbol: "psi", Sig: SigPressure, Factor: psiSI},
		{Name: "kip per square inch", Symbol: "ksi", Sig: SigPressure, Factor: 1e3 * psiSI},
		{Name: "atmosphere", Symbol: "atm", Sig: SigPressure, Factor: 101325},

		// Energy, power
		{Name: "joule", Symbol: "J", Sig: SigEnergy, Factor: 1, Preferred: true},
		{Name: "kilojoule", Symbol: "kJ", Sig: SigEnergy, Factor: 1e3},
		{Name: "kilowatt hour", Symbol: "kWh", Sig: SigEnergy, Factor: 3.6e6},
		{Name: "newton meter", Symbol: "N·m", Sig: SigEnergy, Factor: 1, Aliases: []string{"N*m"}},
		{Name: "foot pound", Symbol: "ft·lbf", Sig: SigEnergy, Factor: footSI * poundForce, Aliases: []string{"ft*lbf", "ftlbf"}},
		{Name: "watt", Symbol: "W", Sig: SigPower, Factor: 1, Preferred: true},
		{Name: "kilowatt", Symbol: "kW", Sig: SigPower, Factor: 1e3},
		{Name: "horsepower", Symbol: "hp", Sig: SigPower, Factor: 550 * footSI * poundForce},

		// Density, flow
		{Name: "kilogram per cubic meter", Symbol: "kg/m³", Sig: SigDensity, Factor: 1, Aliases: []string{"kg/m^3"}, Preferred: true},
		{Name: "pound per cubic foot", Symbol: "lb/ft³", Sig: SigDensity, Factor: poundSI / (footSI * footSI * footSI), Aliases: []string{"lb/ft^3", "pcf"}},
		{Name: "kilogram per second", Symbol: "kg/s", Sig: SigMassFlow, Factor: 1, Preferred: true},
		{Name: "cubic meter per second", Symbol: "m³/s", Sig: SigVolumeFlow, Factor: 1, Aliases: []string{"m^3/s"}, Preferred: true},
		{Name: "gallon per minute", Symbol: "gpm", Sig: SigVolumeFlow, Factor: gallonSI / 60},

		// Electrical
		{Name: "coulomb", Symbol: "C", Sig: SigCharge, Factor: 1, Preferred: true},
		{Name: "volt", Symbol: "V", Sig: SigVoltage, Factor: 1, Preferred: true},
	}
}
