package classfile

import (
	"fmt"
	"strings"
)

// Location is the kind of structure an attribute is attached to.
type Location uint8

const (
	LocationClass Location = 1 << iota
	LocationField
	LocationMethod
	LocationRecordComponent
	LocationCode
)

func (l Location) String() string {
	switch l {
	case LocationClass:
		return "class"
	case LocationField:
		return "field"
	case LocationMethod:
		return "method"
	case LocationRecordComponent:
		return "record_component"
	case LocationCode:
		return "code"
	}
	return fmt.Sprintf("location(%d)", uint8(l))
}

const locationMember = LocationClass | LocationField | LocationMethod | LocationRecordComponent

type attributeRule struct {
	since     uint16
	locations Location
}

var attributeRules = map[string]attributeRule{
	AttrConstantValue:                        {VersionJava1, LocationField},
	AttrCode:                                 {VersionJava1, LocationMethod},
	AttrExceptions:                           {VersionJava1, LocationMethod},
	AttrSourceFile:                           {VersionJava1, LocationClass},
	AttrLineNumberTable:                      {VersionJava1, LocationCode},
	AttrLocalVariableTable:                   {VersionJava1, LocationCode},
	AttrInnerClasses:                         {VersionJava1, LocationClass},
	AttrSynthetic:                            {VersionJava1, LocationClass | LocationField | LocationMethod},
	AttrDeprecated:                           {VersionJava1, LocationClass | LocationField | LocationMethod},
	AttrCharacterRangeTable:                  {VersionJava1, LocationCode},
	AttrCompilationID:                        {VersionJava1, LocationClass},
	AttrSourceID:                             {VersionJava1, LocationClass},
	AttrEnclosingMethod:                      {VersionJava5, LocationClass},
	AttrSignature:                            {VersionJava5, locationMember},
	AttrSourceDebugExtension:                 {VersionJava5, LocationClass},
	AttrLocalVariableTypeTable:               {VersionJava5, LocationCode},
	AttrRuntimeVisibleAnnotations:            {VersionJava5, locationMember},
	AttrRuntimeInvisibleAnnotations:          {VersionJava5, locationMember},
	AttrRuntimeVisibleParameterAnnotations:   {VersionJava5, LocationMethod},
	AttrRuntimeInvisibleParameterAnnotations: {VersionJava5, LocationMethod},
	AttrAnnotationDefault:                    {VersionJava5, LocationMethod},
	AttrStackMapTable:                        {VersionJava6, LocationCode},
	AttrBootstrapMethods:                     {VersionJava7, LocationClass},
	AttrRuntimeVisibleTypeAnnotations:        {VersionJava8, locationMember | LocationCode},
	AttrRuntimeInvisibleTypeAnnotations:      {VersionJava8, locationMember | LocationCode},
	AttrMethodParameters:                     {VersionJava8, LocationMethod},
	AttrModule:                               {VersionJava9, LocationClass},
	AttrModulePackages:                       {VersionJava9, LocationClass},
	AttrModuleMainClass:                      {VersionJava9, LocationClass},
	AttrModuleHashes:                         {VersionJava9, LocationClass},
	AttrModuleResolution:                     {VersionJava9, LocationClass},
	AttrModuleTarget:                         {VersionJava9, LocationClass},
	AttrNestHost:                             {VersionJava11, LocationClass},
	AttrNestMembers:                          {VersionJava11, LocationClass},
	AttrRecord:                               {VersionJava16, LocationClass},
	AttrPermittedSubclasses:                  {VersionJava17, LocationClass},
}

// gateAttribute returns a non-empty reason when an attribute named name must
// not be decoded at loc in a class of the given version.
func gateAttribute(name string, loc Location, major uint16, module bool, opts *Options) string {
	rule, known := attributeRules[name]
	if opts.DropBadContextAttributes {
		if strings.HasPrefix(name, "Module") && !module {
			return "module attribute in a class without ACC_MODULE"
		}
		if known && rule.locations&loc == 0 {
			return "not allowed on " + loc.String()
		}
	}
	if opts.DropForwardVersioned && known && major < rule.since {
		return fmt.Sprintf("introduced in class version %d, class is %d", rule.since, major)
	}
	return ""
}
